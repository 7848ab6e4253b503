// Package renewal реализует правило жизненного цикла подписки:
// вычисление даты продления и статуса перед каждой записью в хранилище.
//
// Правило вынесено в чистую функцию, чтобы его можно было проверять
// без живой базы данных. Момент времени now фиксируется вызывающей
// стороной один раз и используется и для проверки даты начала,
// и для проверки истечения: продление, попадающее ровно в now,
// истекшим не считается.
package renewal

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Ошибки валидации жизненного цикла.
var (
	// ErrStartDateInFuture дата начала должна быть строго в прошлом.
	ErrStartDateInFuture = errors.New("start date must be in the past")
	// ErrRenewalBeforeStart дата продления должна быть строго позже даты начала.
	ErrRenewalBeforeStart = errors.New("renewal date must be after the start date")
)

// Result итог вычисления жизненного цикла подписки.
type Result struct {
	RenewalDate *time.Time // Дата продления; nil, если её нельзя вывести
	Status      string     // Итоговый статус записи
}

// Derive применяет правило жизненного цикла к данным подписки.
//
// Порядок действий:
//  1. дата начала обязана быть строго раньше now;
//  2. если renewalDate не задана, она выводится из startDate и frequency
//     (+1 день / +7 дней / +1 календарный месяц / +1 календарный год);
//     неизвестная или пустая периодичность оставляет дату продления пустой;
//  3. заданная или выведенная дата продления обязана быть строго позже startDate;
//  4. если дата продления строго раньше now, статус принудительно
//     становится "expired", какое бы значение ни прислал клиент.
func Derive(startDate time.Time, renewalDate *time.Time, frequency, status string, now time.Time) (Result, error) {
	if !startDate.Before(now) {
		return Result{}, ErrStartDateInFuture
	}

	if renewalDate == nil {
		if next, ok := advance(startDate, frequency); ok {
			renewalDate = &next
		}
	}

	if renewalDate != nil && !renewalDate.After(startDate) {
		return Result{}, ErrRenewalBeforeStart
	}

	if status == "" {
		status = models.StatusActive
	}
	if renewalDate != nil && renewalDate.Before(now) {
		status = models.StatusExpired
	}

	return Result{RenewalDate: renewalDate, Status: status}, nil
}

// advance сдвигает дату начала на один период частоты списаний.
func advance(startDate time.Time, frequency string) (time.Time, bool) {
	switch frequency {
	case models.FrequencyDaily:
		return startDate.AddDate(0, 0, 1), true
	case models.FrequencyWeekly:
		return startDate.AddDate(0, 0, 7), true
	case models.FrequencyMonthly:
		return startDate.AddDate(0, 1, 0), true
	case models.FrequencyYearly:
		return startDate.AddDate(1, 0, 0), true
	}
	return time.Time{}, false
}
