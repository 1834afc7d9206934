// Package jobs provides scheduled background tasks for the shipment service.
//
// Jobs are cron-driven (github.com/robfig/cron/v3) and are started and
// stopped together through JobManager:
//
//	jobManager, err := jobs.NewJobManager(partnerRepo, "@every 5m", m, logger)
//	if err != nil {
//		return err
//	}
//	jobManager.StartAll()
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// CapacityReconcileJob recomputes every partner's reservation counter from
// the shipment timelines. Reservations are taken and released inside the
// same transactions that write the timeline, so the counters only drift
// after manual database edits or a crash between commit and release. The job
// repairs that drift and counts every corrected partner in
// fastship_capacity_counters_repaired_total.
package jobs
