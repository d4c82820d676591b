package payment

import "testing"

func TestCheckoutRequestValidate(t *testing.T) {
	if err := (CheckoutRequest{Amount: 12000, ParcelID: 1}).Validate(); err != nil {
		t.Errorf("valid checkout rejected: %v", err)
	}
	if err := (CheckoutRequest{Amount: 0, ParcelID: 1}).Validate(); err == nil {
		t.Error("zero amount accepted")
	}
	if err := (CheckoutRequest{Amount: 500, ParcelID: 0}).Validate(); err == nil {
		t.Error("missing parcel_id accepted")
	}
}

func TestConfirmPaymentRequestValidate(t *testing.T) {
	valid := ConfirmPaymentRequest{
		ParcelID:      1,
		Email:         "payer@example.com",
		Amount:        120,
		PaymentMethod: "card",
		TransactionID: "txn_123",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid confirmation rejected: %v", err)
	}

	missingTxn := valid
	missingTxn.TransactionID = "  "
	if err := missingTxn.Validate(); err == nil {
		t.Error("blank transaction_id accepted")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); err == nil {
		t.Error("invalid email accepted")
	}

	badAmount := valid
	badAmount.Amount = -1
	if err := badAmount.Validate(); err == nil {
		t.Error("negative amount accepted")
	}
}
