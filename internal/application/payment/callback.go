package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/infrastructure/persistence/redis"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/metrics"
	"github.com/happymall/mall/pkg/mq"
)

// SignatureVerifier 回调验签接口
// 接口定义在应用层，支付宝实现在infrastructure/alipay；
// 测试时注入假实现即可覆盖验签分支
type SignatureVerifier interface {
	// VerifySignature 验证回调参数签名
	// params中不含sign_type（调用方进入验签前已去掉），含sign之外的全部参数
	VerifySignature(params map[string]string, sign string) error
}

// 支付宝交易状态
const (
	TradeStatusSuccess      = "TRADE_SUCCESS"
	TradeStatusWaitBuyerPay = "WAIT_BUYER_PAY"
)

// gmtLayout 支付宝时间字段格式
const gmtLayout = "2006-01-02 15:04:05"

// CallbackUseCase 支付回调处理用例
//
// 处理支付宝异步通知（notify_url），回调可能乱序、重复、伪造：
// 1. 伪造 → 验签拦截，应答failure
// 2. 非本商店订单号 → 应答failure（支付宝会重试，人工介入排查）
// 3. 重复通知 → 幂等门（status >= PAID直接应答success），
//    不会二次转换状态、不会重复记流水
type CallbackUseCase struct {
	orderRepo      order.Repository
	payInfoRepo    order.PayInfoRepository
	verifier       SignatureVerifier
	payStatusCache *redis.PayStatusCache
	txManager      Transactor
	publisher      *mq.Publisher
}

// NewCallbackUseCase 创建回调处理用例
func NewCallbackUseCase(
	orderRepo order.Repository,
	payInfoRepo order.PayInfoRepository,
	verifier SignatureVerifier,
	payStatusCache *redis.PayStatusCache,
	txManager Transactor,
	publisher *mq.Publisher,
) *CallbackUseCase {
	return &CallbackUseCase{
		orderRepo:      orderRepo,
		payInfoRepo:    payInfoRepo,
		verifier:       verifier,
		payStatusCache: payStatusCache,
		txManager:      txManager,
		publisher:      publisher,
	}
}

// Execute 处理回调
// 返回nil表示应答"success"（支付宝停止重试），
// 返回error表示应答"failure"（支付宝按退避策略重试）
func (uc *CallbackUseCase) Execute(ctx context.Context, params map[string]string) error {
	// 1. 验签
	if err := uc.verifier.VerifySignature(params, params["sign"]); err != nil {
		uc.record("bad_signature")
		return apperrors.ErrInvalidSignature
	}

	orderNo, err := strconv.ParseInt(params["out_trade_no"], 10, 64)
	if err != nil {
		uc.record("error")
		return apperrors.New(apperrors.ErrCodeInvalidParams, "非法的订单号")
	}

	tradeNo := params["trade_no"]
	tradeStatus := params["trade_status"]

	// 2. 幂等处理 + 状态转换（同一事务）
	var transitioned *order.Order
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByOrderNo(txCtx, orderNo)
		if err != nil {
			if errors.Is(err, order.ErrOrderNotFound) {
				return order.ErrForeignOrder
			}
			return err
		}

		// 金额一致性校验：回调金额必须等于下单金额
		if amount, ok := params["total_amount"]; ok && amount != formatAmount(o.Payment) {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "回调金额与订单不符")
		}

		// 幂等门：已支付及之后的状态，一律视为重复通知
		if o.IsPaidOrLater() {
			uc.record("duplicate")
			return nil
		}

		if tradeStatus != TradeStatusSuccess {
			// WAIT_BUYER_PAY等中间状态：记流水但不动订单状态
			uc.record("ignored")
			return uc.appendPayInfo(txCtx, o, tradeNo, tradeStatus)
		}

		paymentTime := parseGmtPayment(params["gmt_payment"])
		if err := uc.orderRepo.MarkPaid(txCtx, orderNo, paymentTime); err != nil {
			if errors.Is(err, order.ErrIllegalTransition) {
				// 并发回调抢先完成了转换，等同重复通知
				uc.record("duplicate")
				return nil
			}
			return err
		}

		if err := uc.appendPayInfo(txCtx, o, tradeNo, tradeStatus); err != nil {
			return err
		}

		transitioned = o
		return nil
	})

	if err != nil {
		if !errors.Is(err, order.ErrForeignOrder) {
			uc.record("error")
		} else {
			uc.record("foreign")
		}
		return err
	}

	// 3. 转换成功的后置动作（缓存、事件，失败不影响应答）
	if transitioned != nil {
		uc.record("paid")

		if err := uc.payStatusCache.MarkPaid(ctx, orderNo); err != nil {
			log.Printf("写支付状态缓存失败 orderNo=%d: %v", orderNo, err)
		}

		if err := uc.publisher.PublishOrderEvent(mq.RouteOrderPaid, mq.OrderEvent{
			OrderNo:    transitioned.OrderNo,
			UserID:     transitioned.UserID,
			Status:     int(order.StatusPaid),
			Payment:    transitioned.Payment,
			OccurredAt: time.Now(),
		}); err != nil {
			log.Printf("发布支付事件失败 orderNo=%d: %v", orderNo, err)
		}
	}

	return nil
}

// appendPayInfo 记一条支付流水（审计用，只追加）
func (uc *CallbackUseCase) appendPayInfo(ctx context.Context, o *order.Order, tradeNo, tradeStatus string) error {
	return uc.payInfoRepo.Create(ctx, &order.PayInfo{
		UserID:         o.UserID,
		OrderNo:        o.OrderNo,
		PayPlatform:    order.PlatformAlipay,
		PlatformNumber: tradeNo,
		PlatformStatus: tradeStatus,
		CreatedAt:      time.Now(),
	})
}

func (uc *CallbackUseCase) record(result string) {
	metrics.IncCounterVec(metrics.PaymentCallbacksTotal, map[string]string{
		"result": result,
	})
}

// parseGmtPayment 解析支付时间，缺失或格式错误时退回当前时间
func parseGmtPayment(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := time.ParseInLocation(gmtLayout, s, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

// formatAmount 分 → 元字符串（与网关请求侧口径一致）
func formatAmount(fen int64) string {
	return fmt.Sprintf("%d.%02d", fen/100, fen%100)
}
