package notifier

import (
	"fmt"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
	"github.com/darkkaiser/scraper-server/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const componentTelegram = "notifier.telegram"

// messageSender 텔레그램 봇 API 클라이언트 중 메시지 발송에 필요한 부분만 추상화한 인터페이스입니다.
// 테스트에서 실제 API 호출 없이 발송 로직을 검증할 수 있도록 합니다.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram 텔레그램 봇을 통해 에러 알림을 발송하는 Notifier 구현입니다.
type Telegram struct {
	bot    messageSender
	chatID int64
}

// NewTelegram 봇 토큰과 수신 채팅 ID로 새로운 Telegram 인스턴스를 생성합니다.
// 생성 과정에서 봇 토큰의 유효성이 텔레그램 서버를 통해 검증됩니다.
func NewTelegram(botToken string, chatID int64) (*Telegram, error) {
	botAPI, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "텔레그램 봇 API 초기화에 실패했습니다")
	}

	applog.WithComponentAndFields(componentTelegram, log.Fields{
		"bot_username": botAPI.Self.UserName,
	}).Info("텔레그램 알림 채널 초기화 완료")

	return newTelegramWithBot(botAPI, chatID), nil
}

// newTelegramWithBot 외부에서 주입된 봇 클라이언트를 사용하여 Telegram 인스턴스를 생성합니다.
func newTelegramWithBot(bot messageSender, chatID int64) *Telegram {
	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}
}

// NotifyError 에러 알림 메시지를 발송합니다.
//
// 메시지에 포함된 HTML 태그는 텔레그램 파싱 오류를 피하기 위해 제거됩니다.
// 발송 실패는 로깅만 하고 호출 측으로 에러를 전파하지 않습니다.
func (t *Telegram) NotifyError(message string) bool {
	text := fmt.Sprintf("[오류] %s", strutil.StripHTMLTags(message))

	messageConfig := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(messageConfig); err != nil {
		applog.WithComponentAndFields(componentTelegram, log.Fields{
			"chat_id": t.chatID,
			"error":   err,
		}).Error("텔레그램 알림 발송에 실패했습니다")

		return false
	}

	return true
}
