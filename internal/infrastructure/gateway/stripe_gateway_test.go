package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/gateway"
)

func newGateway(t *testing.T, handler http.HandlerFunc) (*gateway.StripeGateway, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	gw, err := gateway.NewStripeGateway(gateway.StripeConfig{SecretKey: "sk_test_123", URL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return gw, &calls
}

func submission() payment.ChargeSubmission {
	return payment.ChargeSubmission{AmountMinor: 25000, Currency: "usd", Description: "Cuota marzo 2024", Token: "tok_visa"}
}

func TestSubmitCharge_Exitoso(t *testing.T) {
	gw, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "25000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "tok_visa", r.PostForm.Get("source"))
		assert.Equal(t, "Cuota marzo 2024", r.PostForm.Get("description"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_123","object":"charge","amount":25000,"currency":"usd","status":"succeeded"}`))
	})

	res, err := gw.SubmitCharge(context.Background(), submission())
	require.NoError(t, err)
	assert.Equal(t, &payment.GatewayCharge{ID: "ch_123", Status: "succeeded"}, res)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestSubmitCharge_EstadoPendiente(t *testing.T) {
	gw, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_9","object":"charge","status":"pending"}`))
	})

	res, err := gw.SubmitCharge(context.Background(), submission())
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
}

func TestSubmitCharge_TarjetaRechazada(t *testing.T) {
	gw, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})

	res, err := gw.SubmitCharge(context.Background(), submission())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_declined")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestSubmitCharge_ErrorDelServidorNoSeReintenta(t *testing.T) {
	gw, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
	})

	_, err := gw.SubmitCharge(context.Background(), submission())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestNewStripeGateway_SinClave(t *testing.T) {
	_, err := gateway.NewStripeGateway(gateway.StripeConfig{})
	assert.Error(t, err)
}

func TestUnavailable_RechazaSinLlamar(t *testing.T) {
	ch, err := gateway.Unavailable{}.SubmitCharge(context.Background(), submission())
	assert.Nil(t, ch)
	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
}
