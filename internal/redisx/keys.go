package redisx

import "time"

const (
	// Freight calculation counter per client: ratelimit:freight:{ip} -> count (fixed window)
	KeyFreightRate = "ratelimit:freight:%s"

	// Payment order status cache: payment_order_status:{order_number} -> {"orderNumber":..,"paymentStatus":..}
	KeyPaymentStatus = "payment_order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
