package shop

// Error messages
const (
	ErrMsgWithdrawFailed = "failed to charge for item"
	ErrMsgGiveFailed     = "failed to deliver purchased item"
	ErrMsgRefundFailed   = "failed to refund purchase"
)

// Log messages
const (
	LogMsgBuyItemCalled  = "BuyItem called"
	LogMsgItemPurchased  = "Item purchased"
	LogMsgPurchaseRefund = "Purchase refunded after delivery failed"
	LogMsgRefundFailed   = "Refund failed, customer was charged without receiving the item"
)
