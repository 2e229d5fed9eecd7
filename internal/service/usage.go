// usage.go — лимиты тарифов на количество встреч за календарный месяц.
// Тариф приходит в claim "plan" JWT внешнего identity-провайдера;
// сама биллинговая система остаётся внешней.
package service

import (
	"strings"
	"time"
)

// Тарифы.
const (
	PlanFree     = "free"
	PlanStarter  = "starter"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// unlimitedMeetings — практический потолок для безлимитного тарифа.
const unlimitedMeetings = 999999

// PlanLimit возвращает месячный лимит встреч и каноническое имя тарифа.
// Пустой или неизвестный claim без активной подписки трактуется как free;
// любой прочий установленный тариф по умолчанию даёт лимиты starter.
func PlanLimit(plan string) (limit int, name string) {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case "", PlanFree:
		return 3, "Free"
	case PlanStarter:
		return 20, "Starter"
	case PlanPro:
		return 100, "Pro"
	case PlanBusiness:
		return unlimitedMeetings, "Business"
	default:
		return 20, "Starter"
	}
}

// startOfMonth возвращает начало календарного месяца в UTC —
// начало расчётного периода для лимитов.
func startOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
