// Package notifier 수집 실패 등 운영자가 알아야 하는 이벤트를 외부 채널(텔레그램)로 발송합니다.
//
// 설정에서 봇 토큰이 비어있으면 아무 동작도 하지 않는 NoOp 구현이 사용되어,
// 호출 측은 알림 활성화 여부를 신경 쓰지 않아도 됩니다.
package notifier

// Notifier 에러 알림 발송 인터페이스입니다.
type Notifier interface {
	// NotifyError 에러 알림 메시지를 발송합니다. 발송 성공 여부를 반환합니다.
	NotifyError(message string) bool
}

// NoOp 아무 동작도 하지 않는 Notifier 구현입니다.
type NoOp struct{}

// NewNoOp 새로운 NoOp 인스턴스를 생성합니다.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// NotifyError 알림을 발송하지 않고 항상 true를 반환합니다.
func (n *NoOp) NotifyError(string) bool {
	return true
}
