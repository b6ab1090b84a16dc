package sslcommerz

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/payment"
)

func signedParams(storePasswd string, params map[string]string) map[string]string {
	keys := []string{"tran_id", "val_id", "amount", "status"}

	passwdHash := md5.Sum([]byte(storePasswd))
	var builder strings.Builder
	for _, k := range keys {
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
		builder.WriteString("&")
	}
	builder.WriteString("store_passwd=")
	builder.WriteString(hex.EncodeToString(passwdHash[:]))
	sign := md5.Sum([]byte(builder.String()))

	params["verify_key"] = strings.Join(keys, ",")
	params["verify_sign"] = hex.EncodeToString(sign[:])
	return params
}

func TestVerifyCallback_ValidSignature(t *testing.T) {
	d := NewSSLCommerzDriver("https://sandbox.sslcommerz.com", "store1", "passwd1", time.Second)

	params := signedParams("passwd1", map[string]string{
		"tran_id": "abc123",
		"val_id":  "VAL-1",
		"amount":  "50.00",
		"status":  "VALID",
	})

	data, err := d.VerifyCallback(params)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", data.TranID)
	assert.Equal(t, "VAL-1", data.ValID)
	assert.Equal(t, "VALID", data.Status)
	assert.Equal(t, "50.00", data.Amount)
}

func TestVerifyCallback_TamperedParamsRejected(t *testing.T) {
	d := NewSSLCommerzDriver("https://sandbox.sslcommerz.com", "store1", "passwd1", time.Second)

	params := signedParams("passwd1", map[string]string{
		"tran_id": "abc123",
		"val_id":  "VAL-1",
		"amount":  "50.00",
		"status":  "VALID",
	})
	params["amount"] = "5000.00"

	_, err := d.VerifyCallback(params)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyCallback_WrongStorePassword(t *testing.T) {
	d := NewSSLCommerzDriver("https://sandbox.sslcommerz.com", "store1", "other-passwd", time.Second)

	params := signedParams("passwd1", map[string]string{
		"tran_id": "abc123",
		"status":  "VALID",
	})

	_, err := d.VerifyCallback(params)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyCallback_MissingSignature(t *testing.T) {
	d := NewSSLCommerzDriver("https://sandbox.sslcommerz.com", "store1", "passwd1", time.Second)

	_, err := d.VerifyCallback(map[string]string{"tran_id": "abc123", "status": "VALID"})
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCreateSession_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sessionPath, r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "store1", r.PostFormValue("store_id"))
		assert.Equal(t, "tran-1", r.PostFormValue("tran_id"))
		assert.Equal(t, "50.00", r.PostFormValue("total_amount"))
		assert.Equal(t, "BDT", r.PostFormValue("currency"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://pay.example/session/1"}`))
	}))
	defer srv.Close()

	d := NewSSLCommerzDriver(srv.URL, "store1", "passwd1", time.Second)
	url, err := d.CreateSession(context.Background(), payment.SessionRequest{
		TranID:     "tran-1",
		Amount:     50,
		CustomerID: "42",
		SuccessURL: "http://localhost/success",
		FailURL:    "http://localhost/fail",
		CancelURL:  "http://localhost/cancel",
		IPNURL:     "http://localhost/ipn",
	})
	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example/session/1", url)
}

func TestCreateSession_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credentials invalid"}`))
	}))
	defer srv.Close()

	d := NewSSLCommerzDriver(srv.URL, "store1", "wrong", time.Second)
	_, err := d.CreateSession(context.Background(), payment.SessionRequest{TranID: "tran-2", Amount: 10})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store credentials invalid")
}
