// file: internals/features/finance/payments/service/midtrans.go
package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"acainfo_backend/internals/features/finance/payments/model"
)

/* =========================
   Midtrans Client
========================= */

var (
	SnapClient snap.Client
	serverKey  string
)

// InitMidtrans must be called during app bootstrap.
// useProduction=true for Production, false for Sandbox.
func InitMidtrans(key string, useProduction bool) {
	serverKey = key
	if useProduction {
		SnapClient.New(key, midtrans.Production)
	} else {
		SnapClient.New(key, midtrans.Sandbox)
	}
}

// VerifySignature checks the notification signature:
// SHA512(order_id + status_code + gross_amount + server key).
func VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	want := strings.ToLower(strings.TrimSpace(signatureKey))
	if want == "" {
		return false
	}
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:]) == want
}

/* =========================
   Customer data
========================= */

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

/* =========================
   Generate Snap Token
========================= */

func GenerateSnapToken(p *model.PaymentModel, cust CustomerInput) (token string, redirectURL string, err error) {
	if p.PaymentAmount <= 0 {
		return "", "", errors.New("invalid payment_amount")
	}
	if p.PaymentOrderID == "" {
		return "", "", errors.New("payment_order_id is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.PaymentOrderID,
			GrossAmt: p.PaymentAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
	}

	itemName := "Tuition"
	if p.PaymentDescription != nil && *p.PaymentDescription != "" {
		itemName = truncate(*p.PaymentDescription, 50)
	}
	req.Items = &[]midtrans.ItemDetails{
		{
			ID:       p.PaymentOrderID,
			Price:    p.PaymentAmount,
			Qty:      1,
			Name:     itemName,
			Category: "tuition",
		},
	}

	resp, errSnap := SnapClient.CreateTransaction(req)
	if errSnap != nil {
		return "", "", errSnap
	}
	return resp.Token, resp.RedirectURL, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
