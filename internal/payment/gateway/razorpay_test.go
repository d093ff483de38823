package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pyromart/pyromart-api/pkg/apperr"
)

func TestRazorpayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key-id" || pass != "key-secret" {
			t.Errorf("missing or wrong basic auth")
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["amount"].(float64) != 40000 {
			t.Errorf("amount = %v, want 40000", payload["amount"])
		}
		if payload["currency"] != "INR" {
			t.Errorf("currency = %v", payload["currency"])
		}

		json.NewEncoder(w).Encode(Order{
			ID:       "order_gw123",
			Amount:   40000,
			Currency: "INR",
			Receipt:  payload["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	gw := NewRazorpayGateway("key-id", "key-secret", srv.URL)
	order, err := gw.CreateOrder(context.Background(), 40000, "INR", Receipt("abc"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_gw123" {
		t.Fatalf("order ID = %q", order.ID)
	}
	if order.Receipt != "order_rcpt_abc" {
		t.Fatalf("receipt = %q", order.Receipt)
	}
}

func TestRazorpayCreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewRazorpayGateway("key-id", "key-secret", srv.URL)
	_, err := gw.CreateOrder(context.Background(), 40000, "INR", "rcpt")
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("kind = %v, want upstream", apperr.KindOf(err))
	}
}

func TestRazorpayCreateOrder_EmptyOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Order{})
	}))
	defer srv.Close()

	gw := NewRazorpayGateway("key-id", "key-secret", srv.URL)
	_, err := gw.CreateOrder(context.Background(), 40000, "INR", "rcpt")
	if err == nil {
		t.Fatal("expected error for empty order id")
	}
}
