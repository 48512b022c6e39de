package market

const (
	TopicOrderPlaced     = "market.order.placed"
	TopicOrderPaid       = "market.order.paid"
	TopicSubOrderUpdated = "market.suborder.updated"
)

// Partition key = parent order id, so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
