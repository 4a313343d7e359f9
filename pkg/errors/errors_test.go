package errors

import (
	"errors"
	"fmt"
	"testing"
)

// 测试错误消息格式
func TestAppErrorError(t *testing.T) {
	e := New(ErrCodeInvalidParams, "参数错误")
	want := "[40900] 参数错误"
	if e.Error() != want {
		t.Errorf("Error() = %q, 期望 %q", e.Error(), want)
	}

	wrapped := Wrap(fmt.Errorf("connection refused"), "数据库错误")
	want = "[50000] 数据库错误: connection refused"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, 期望 %q", wrapped.Error(), want)
	}
}

// 测试errors.Is/As对包装错误生效
func TestAppErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("disk full")
	wrapped := Wrap(inner, "写入失败")

	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is应该能找到被包装的内部错误")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As应该能提取AppError")
	}
	if appErr.Code != ErrCodeInternal {
		t.Errorf("Code = %d, 期望%d", appErr.Code, ErrCodeInternal)
	}
}

// 测试GetAppError对任意错误的兜底包装
func TestGetAppError(t *testing.T) {
	if got := GetAppError(ErrOrderNotFound); got.Code != ErrCodeOrderNotFound {
		t.Errorf("Code = %d, 期望%d", got.Code, ErrCodeOrderNotFound)
	}

	plain := fmt.Errorf("something broke")
	got := GetAppError(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("非AppError应包装为内部错误, Code = %d", got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("包装后应保留原始错误链")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(ErrEmptyCart) {
		t.Error("预定义错误应是AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("普通error不是AppError")
	}
}
