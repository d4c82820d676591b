package parcel

import (
	"strings"
	"testing"
)

func validCreateRequest() ParcelCreateRequest {
	return ParcelCreateRequest{
		Type:   "document",
		Title:  "Office contracts",
		Weight: 2,

		SenderName:        "Karim Uddin",
		SenderContact:     "01712345678",
		SenderRegion:      "Dhaka",
		SenderCenter:      "Dhanmondi Hub",
		SenderArea:        "Dhanmondi 27",
		PickupInstruction: "Call before pickup",

		ReceiverName:        "Rahim Mia",
		ReceiverContact:     "+8801812345678",
		ReceiverRegion:      "Chattogram",
		ReceiverCenter:      "Agrabad Hub",
		ReceiverArea:        "Agrabad C/A",
		DeliveryInstruction: "Leave at reception",

		TotalCost: 120,
	}
}

func TestParcelCreateRequestValidate(t *testing.T) {
	if err := validCreateRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*ParcelCreateRequest)
		wantMsg string
	}{
		{"bad type", func(r *ParcelCreateRequest) { r.Type = "fragile" }, "type"},
		{"empty title", func(r *ParcelCreateRequest) { r.Title = "  " }, "title"},
		{"negative weight", func(r *ParcelCreateRequest) { r.Weight = -1 }, "weight"},
		{"overweight", func(r *ParcelCreateRequest) { r.Weight = 1001 }, "weight"},
		{"bad sender phone", func(r *ParcelCreateRequest) { r.SenderContact = "12345" }, "sender contact"},
		{"bad receiver phone", func(r *ParcelCreateRequest) { r.ReceiverContact = "0211111111" }, "receiver contact"},
		{"missing receiver area", func(r *ParcelCreateRequest) { r.ReceiverArea = "" }, "receiver area"},
		{"negative cost", func(r *ParcelCreateRequest) { r.TotalCost = -5 }, "cost"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			err := req.Validate()
			if err == nil {
				t.Fatal("invalid request accepted")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestUpdateStatusRequestValidate(t *testing.T) {
	for _, status := range []string{"not_collected", "rider_assigned", "in_transit", "delivered"} {
		if err := (UpdateStatusRequest{Status: status}).Validate(); err != nil {
			t.Errorf("status %q rejected: %v", status, err)
		}
	}
	for _, status := range []string{"", "shipped", "DELIVERED", "done"} {
		if err := (UpdateStatusRequest{Status: status}).Validate(); err == nil {
			t.Errorf("status %q accepted, want error", status)
		}
	}
}

func TestTrackingUpdateRequestValidate(t *testing.T) {
	if err := (TrackingUpdateRequest{Status: "at_hub", Message: "Arrived at sorting hub"}).Validate(); err != nil {
		t.Errorf("valid tracking update rejected: %v", err)
	}
	if err := (TrackingUpdateRequest{Status: "", Message: "x"}).Validate(); err == nil {
		t.Error("missing status accepted")
	}
	if err := (TrackingUpdateRequest{Status: "x", Message: " "}).Validate(); err == nil {
		t.Error("blank message accepted")
	}
}
