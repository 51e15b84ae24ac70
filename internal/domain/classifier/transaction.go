// Package classifier turns a sanitized statement table into categorized
// transactions by running an ordered set of independent pattern rules over the
// free-text Details column.
package classifier

// Category is the transaction category assigned by a classification rule. The
// values are the wire values emitted to callers.
type Category string

const (
	CategoryCharge          Category = "Charge"
	CategoryPaybill         Category = "Paybill"
	CategoryMerchantPayment Category = "Merchant Payment"
	CategorySendMoney       Category = "Send Money"
)

// defaultRecipientID is used when a category carries no recipient identifier.
const defaultRecipientID = "n/a"

// Transaction is one classified statement entry. Amount is always the
// absolute value of the row's Withdrawn column; direction is implied by the
// category.
type Transaction struct {
	Category       Category `json:"category" csv:"category"`
	CompletionTime string   `json:"completion_time" csv:"completion_time"`
	Amount         float64  `json:"amount" csv:"amount"`
	RecipientID    string   `json:"recipient_id" csv:"recipient_id"`
	RecipientName  string   `json:"recipient_name" csv:"recipient_name"`
	ReceiptID      string   `json:"receipt_id" csv:"receipt_id"`
}
