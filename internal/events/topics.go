package events

const (
	TopicQuoteCreated        = "rfq.quote.created"
	TopicQuoteResponded      = "rfq.quote.responded"
	TopicPaymentOrderCreated = "rfq.payment.created"
	TopicPaymentCompleted    = "rfq.payment.completed"
	TopicOrderCreated        = "rfq.order.created"
)

// Partition key = quote id / order number, so one aggregate keeps its order.
func PartitionKey(id string) []byte { return []byte(id) }
