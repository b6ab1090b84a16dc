package sslcommerz

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/payment"
)

const sessionPath = "/gwprocess/v4/api.php"

var ErrSignatureMismatch = errors.New("signature mismatch")

type SSLCommerzDriver struct {
	BaseURL     string
	StoreID     string
	StorePasswd string
	Client      *http.Client
}

func NewSSLCommerzDriver(baseURL, storeID, storePasswd string, timeout time.Duration) *SSLCommerzDriver {
	return &SSLCommerzDriver{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		StoreID:     storeID,
		StorePasswd: storePasswd,
		Client:      &http.Client{Timeout: timeout},
	}
}

type sessionResponse struct {
	Status         string `json:"status"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

// CreateSession opens a hosted payment session and returns the gateway
// page URL the citizen is redirected to.
func (d *SSLCommerzDriver) CreateSession(ctx context.Context, req payment.SessionRequest) (string, error) {
	currency := req.Currency
	if currency == "" {
		currency = "BDT"
	}

	form := url.Values{}
	form.Set("store_id", d.StoreID)
	form.Set("store_passwd", d.StorePasswd)
	form.Set("tran_id", req.TranID)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", currency)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("ipn_url", req.IPNURL)
	form.Set("cus_id", req.CustomerID)
	form.Set("product_category", "service")
	form.Set("shipping_method", "NO")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+sessionPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.Client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if !strings.EqualFold(body.Status, "SUCCESS") {
		return "", fmt.Errorf("gateway rejected session: %s", body.FailedReason)
	}
	if body.GatewayPageURL == "" {
		return "", errors.New("gateway returned empty page URL")
	}

	return body.GatewayPageURL, nil
}

// VerifyCallback checks the MD5 verify_sign the gateway attaches to
// every redirect and IPN callback. The gateway lists the signed keys in
// verify_key; the sign is md5 over those key=value pairs in the listed
// order plus the md5 of the store password.
func (d *SSLCommerzDriver) VerifyCallback(params map[string]string) (payment.CallbackData, error) {
	data := payment.CallbackData{
		TranID: params["tran_id"],
		ValID:  params["val_id"],
		Status: params["status"],
		Amount: params["amount"],
	}

	verifySign := params["verify_sign"]
	verifyKey := params["verify_key"]
	if verifySign == "" || verifyKey == "" {
		return data, ErrSignatureMismatch
	}

	if d.computeSign(params, verifyKey) != verifySign {
		return data, ErrSignatureMismatch
	}

	return data, nil
}

func (d *SSLCommerzDriver) computeSign(params map[string]string, verifyKey string) string {
	passwdHash := md5.Sum([]byte(d.StorePasswd))

	var builder strings.Builder
	for _, k := range strings.Split(verifyKey, ",") {
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
		builder.WriteString("&")
	}
	builder.WriteString("store_passwd=")
	builder.WriteString(hex.EncodeToString(passwdHash[:]))

	sign := md5.Sum([]byte(builder.String()))
	return hex.EncodeToString(sign[:])
}
