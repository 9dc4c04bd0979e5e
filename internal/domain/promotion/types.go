package promotion

type Kind string

const (
	KindCoupon   Kind = "coupon"
	KindGiftCard Kind = "gift_card"
	KindCashback Kind = "cashback"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindCoupon, KindGiftCard, KindCashback:
		return true
	default:
		return false
	}
}

type GiftCardStatus string

const (
	GiftCardActive  GiftCardStatus = "active"
	GiftCardUsed    GiftCardStatus = "used"
	GiftCardExpired GiftCardStatus = "expired"
)
