// Package alipay 实现支付宝当面付的预下单和回调验签。
//
// 设计说明：
// 1. 只实现本系统用到的两个能力：trade.precreate（生成收款二维码）
//    和异步通知验签（RSA2），不引入完整SDK
// 2. 所有配置（网关地址、密钥、超时）通过构造函数注入，
//    没有包级单例，测试时可以指向本地mock网关
package alipay

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/happymall/mall/internal/infrastructure/config"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// Client 支付宝客户端
// 同时实现应用层的SignatureVerifier和PrecreateClient接口
type Client struct {
	cfg        config.AlipayConfig
	privateKey *rsa.PrivateKey // 商户私钥（请求签名用）
	publicKey  *rsa.PublicKey  // 支付宝公钥（回调验签用）
	httpClient *http.Client
}

// NewClient 创建支付宝客户端
// 密钥在启动时解析一次，格式错误直接失败（不要带病运行到第一笔支付）
func NewClient(cfg config.AlipayConfig) (*Client, error) {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}

	if cfg.AppPrivateKey != "" {
		key, err := parsePrivateKey(cfg.AppPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("解析商户私钥失败: %w", err)
		}
		c.privateKey = key
	}

	if cfg.AlipayPublicKey != "" {
		key, err := parsePublicKey(cfg.AlipayPublicKey)
		if err != nil {
			return nil, fmt.Errorf("解析支付宝公钥失败: %w", err)
		}
		c.publicKey = key
	}

	return c, nil
}

// =========================================
// 回调验签
// =========================================

// VerifySignature 验证异步通知签名（RSA2）
// 验签规则（支付宝官方文档）：
// 1. 参数集合中去掉sign（sign_type由调用方在进入验签前去掉）
// 2. 剩余参数按键名ASCII升序排列，拼接成 k1=v1&k2=v2 形式
// 3. 用支付宝公钥对拼接串做SHA256WithRSA验签
func (c *Client) VerifySignature(params map[string]string, sign string) error {
	if c.publicKey == nil {
		return apperrors.New(apperrors.ErrCodeInternal, "未配置支付宝公钥，无法验签")
	}

	content := buildSignContent(params)

	signBytes, err := base64.StdEncoding.DecodeString(sign)
	if err != nil {
		return apperrors.ErrInvalidSignature
	}

	digest := sha256.Sum256([]byte(content))
	if err := rsa.VerifyPKCS1v15(c.publicKey, crypto.SHA256, digest[:], signBytes); err != nil {
		return apperrors.ErrInvalidSignature
	}

	return nil
}

// buildSignContent 参数按键名升序拼接（跳过sign和空值）
func buildSignContent(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "sign" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

// =========================================
// 当面付预下单
// =========================================

// precreateBizContent 预下单业务参数
type precreateBizContent struct {
	OutTradeNo     string `json:"out_trade_no"`
	TotalAmount    string `json:"total_amount"` // 元为单位的字符串，如"27.50"
	Subject        string `json:"subject"`
	TimeoutExpress string `json:"timeout_express,omitempty"`
}

// precreateResponse 预下单响应
type precreateResponse struct {
	Response struct {
		Code       string `json:"code"`
		Msg        string `json:"msg"`
		SubCode    string `json:"sub_code"`
		SubMsg     string `json:"sub_msg"`
		OutTradeNo string `json:"out_trade_no"`
		QRCode     string `json:"qr_code"`
	} `json:"alipay_trade_precreate_response"`
}

// Precreate 预下单，返回收款二维码内容（URL字符串）
// totalAmount以分为单位，请求中按支付宝要求转为元
func (c *Client) Precreate(ctx context.Context, orderNo int64, subject string, totalAmount int64) (string, error) {
	if c.privateKey == nil {
		return "", apperrors.New(apperrors.ErrCodeInternal, "未配置商户私钥，无法预下单")
	}

	biz := precreateBizContent{
		OutTradeNo:     fmt.Sprintf("%d", orderNo),
		TotalAmount:    formatAmount(totalAmount),
		Subject:        subject,
		TimeoutExpress: c.cfg.TimeoutExpress,
	}
	bizJSON, err := json.Marshal(biz)
	if err != nil {
		return "", apperrors.Wrap(err, "序列化预下单参数失败")
	}

	params := map[string]string{
		"app_id":      c.cfg.AppID,
		"method":      "alipay.trade.precreate",
		"charset":     "utf-8",
		"sign_type":   "RSA2",
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"notify_url":  c.cfg.NotifyURL,
		"biz_content": string(bizJSON),
	}

	sign, err := c.sign(params)
	if err != nil {
		return "", err
	}
	params["sign"] = sign

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.Wrap(err, "构造预下单请求失败")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, "调用支付网关失败")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(err, "读取网关响应失败")
	}

	var result precreateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apperrors.Wrap(err, "解析网关响应失败")
	}

	// 10000表示成功，其余见sub_code/sub_msg
	if result.Response.Code != "10000" {
		return "", apperrors.New(apperrors.ErrCodeGatewayError,
			fmt.Sprintf("预下单失败: %s(%s)", result.Response.SubMsg, result.Response.SubCode))
	}

	return result.Response.QRCode, nil
}

// sign 对请求参数做RSA2签名
func (c *Client) sign(params map[string]string) (string, error) {
	content := buildSignContent(params)

	digest := sha256.Sum256([]byte(content))
	signBytes, err := rsa.SignPKCS1v15(rand.Reader, c.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", apperrors.Wrap(err, "请求签名失败")
	}

	return base64.StdEncoding.EncodeToString(signBytes), nil
}

// formatAmount 分 → 元字符串（如2750 → "27.50"）
func formatAmount(fen int64) string {
	return fmt.Sprintf("%d.%02d", fen/100, fen%100)
}

// =========================================
// 密钥解析
// =========================================

// parsePrivateKey 解析PEM格式私钥，兼容PKCS#1和PKCS#8
func parsePrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("无效的PEM格式")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("不是RSA私钥")
	}
	return key, nil
}

// parsePublicKey 解析PEM格式公钥（PKIX）
func parsePublicKey(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("无效的PEM格式")
	}

	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("不是RSA公钥")
	}
	return key, nil
}
