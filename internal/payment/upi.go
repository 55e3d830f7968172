// Package payment builds UPI payment requests and renders them as
// scannable QR codes.
package payment

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

type UPI struct {
	PayeeID   string // e.g. someone@upi
	PayeeName string
}

// URI encodes a pay-to request for the given amount in paise, in the form
// upi://pay?am=..&cu=INR&pa=..&pn=..
func (u UPI) URI(amountPaise int64) string {
	q := url.Values{}
	q.Set("pa", u.PayeeID)
	q.Set("pn", u.PayeeName)
	q.Set("am", fmt.Sprintf("%d.%02d", amountPaise/100, amountPaise%100))
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode()
}

// QRPNG renders the pay URI as a PNG image.
func (u UPI) QRPNG(amountPaise int64) ([]byte, error) {
	return qrcode.Encode(u.URI(amountPaise), qrcode.Medium, qrSize)
}
