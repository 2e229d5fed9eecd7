// Пакет status — конечный автомат статусов обработки встречи.
//
// Жизненный цикл: pending → processing → {completed | failed}.
// Терминальные статусы (completed, failed) поглощающие — переходы
// из них запрещены. Повторный переход processing → processing
// допускается (идемпотентный перезапуск обработки).
package status

import "fmt"

// Status — статус жизненного цикла встречи.
type Status string

const (
	// Pending — встреча создана, обработка не начиналась.
	Pending Status = "pending"
	// Processing — пайплайн обработки выполняется.
	Processing Status = "processing"
	// Completed — обработка успешно завершена, результаты записаны.
	Completed Status = "completed"
	// Failed — обработка завершилась ошибкой.
	Failed Status = "failed"
)

// validTransitions — матрица допустимых переходов.
// Ключ — текущий статус, значение — набор допустимых целевых статусов.
var validTransitions = map[Status]map[Status]bool{
	Pending:    {Processing: true},
	Processing: {Processing: true, Completed: true, Failed: true},
	Completed:  {}, // Терминальный статус — переходы запрещены
	Failed:     {}, // Терминальный статус — переходы запрещены
}

// CanTransition проверяет, допустим ли переход from → to.
func CanTransition(from, to Status) bool {
	transitions, ok := validTransitions[from]
	if !ok {
		return false
	}
	return transitions[to]
}

// Validate проверяет допустимость перехода from → to.
// Возвращает *TransitionError для недопустимых переходов.
func Validate(from, to Status) error {
	if !IsValid(to) {
		return &TransitionError{
			From:    from,
			To:      to,
			Message: fmt.Sprintf("недопустимый целевой статус: %q", to),
		}
	}

	if !CanTransition(from, to) {
		return &TransitionError{
			From:    from,
			To:      to,
			Message: fmt.Sprintf("переход %s → %s недопустим", from, to),
		}
	}

	return nil
}

// IsTerminal сообщает, является ли статус поглощающим.
func IsTerminal(s Status) bool {
	return s == Completed || s == Failed
}

// IsValid проверяет, является ли строка допустимым статусом.
func IsValid(s Status) bool {
	switch s {
	case Pending, Processing, Completed, Failed:
		return true
	default:
		return false
	}
}

// Parse преобразует строку в Status.
// Возвращает ошибку для недопустимых значений.
func Parse(s string) (Status, error) {
	st := Status(s)
	if !IsValid(st) {
		return "", fmt.Errorf("недопустимый статус: %q, допустимые: pending, processing, completed, failed", s)
	}
	return st, nil
}

// TransitionError — ошибка недопустимого перехода между статусами.
type TransitionError struct {
	From    Status
	To      Status
	Message string
}

func (e *TransitionError) Error() string {
	return e.Message
}
