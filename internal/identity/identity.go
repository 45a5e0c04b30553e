// Package identity 마켓플레이스 요청에 사용되는 합성 세션 식별 정보를 제공합니다.
//
// 마켓플레이스는 세션 쿠키가 없는 요청을 차단하므로, 브라우저가 최초 방문 시
// 발급받는 것과 동일한 형태의 쿠키 집합을 만들어 요청에 첨부합니다.
// 하나의 프로세스는 하나의 세션으로 동작해야 하므로(요청마다 세션이 바뀌면
// 봇 탐지에 노출됨) 생성된 쿠키 문자열은 Provider 생명주기 동안 재사용됩니다.
package identity

import (
	"strings"
	"sync"

	"github.com/labstack/gommon/random"
)

// sessionIDLength 합성 세션 ID(PHPSESSID)의 길이입니다.
// 실제 마켓플레이스가 발급하는 세션 ID와 동일한 길이를 사용합니다.
const sessionIDLength = 26

// Provider 합성 세션 쿠키 문자열을 생성하고 캐싱하는 구조체입니다.
//
// 전역 상태 대신 주입 가능한 객체로 관리하여, 테스트에서 독립된 세션을
// 자유롭게 생성할 수 있도록 합니다.
type Provider struct {
	once   sync.Once
	cookie string
}

// NewProvider 새로운 Provider 인스턴스를 생성합니다.
func NewProvider() *Provider {
	return &Provider{}
}

// Identity 세미콜론으로 연결된 쿠키 헤더 문자열을 반환합니다.
//
// 최초 호출 시 무작위 세션 ID를 포함한 쿠키 집합을 생성하고,
// 이후 호출에서는 동일한 문자열을 그대로 반환합니다. 실패 케이스는 없습니다.
func (p *Provider) Identity() string {
	p.once.Do(func() {
		sessionID := random.String(sessionIDLength, random.Lowercase+random.Numeric)

		p.cookie = strings.Join([]string{
			"PHPSESSID=" + sessionID,
			"DHaccept=webp",
			"ref_df=direct",
			"language=en",
			"intl_currency=USD",
			"__dh_gdpr__=1",
			"b_u_cc=ucc=US",
			"suship=US",
			"b2b_ship_country=US",
			"b2b_ip_country=US",
		}, "; ")
	})

	return p.cookie
}
