package redisx

import "time"

const (
	// Cache of parent order status: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cached vendor dashboard: stats:stall:{stall_id} -> DashboardStats JSON
	KeyStallStats = "stats:stall:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLStallStats  = 10 * time.Minute
)
