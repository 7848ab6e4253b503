package models

import "time"

// Статусы подписки.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Периодичности списаний.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// DefaultCurrency валюта по умолчанию, если клиент её не указал.
const DefaultCurrency = "USD"

// DateLayout формат дат в JSON-запросах.
const DateLayout = "02-01-2006"

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
// RenewalDate может быть nil — тогда дата продления выводится
// из StartDate и Frequency перед записью в хранилище.
type Subscription struct {
	ID            string     `json:"id"`                     // Идентификатор записи (uuid)
	Name          string     `json:"name"`                   // Название сервиса подписки
	Price         float64    `json:"price"`                  // Цена за период
	Currency      string     `json:"currency"`               // Валюта, одна из USD/EUR/GBP
	Frequency     string     `json:"frequency,omitempty"`    // Периодичность списаний, может быть пустой
	Category      string     `json:"category"`               // Категория подписки
	PaymentMethod string     `json:"payment_method"`         // Способ оплаты
	Status        string     `json:"status"`                 // Статус: active, cancelled или expired
	StartDate     time.Time  `json:"start_date"`             // Дата начала подписки, строго в прошлом
	RenewalDate   *time.Time `json:"renewal_date,omitempty"` // Дата следующего продления
	UserUID       string     `json:"user_uid"`               // Владелец подписки
	CreatedAt     time.Time  `json:"created_at"`             // Дата создания записи
	UpdatedAt     time.Time  `json:"updated_at"`             // Дата последнего изменения записи
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Даты приходят в виде строк и парсятся вручную в сервисном слое:
// там же отклоняется неверный формат.
type DummySubscription struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Price         float64 `json:"price" validate:"omitempty,gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,oneof=USD EUR GBP"`
	Frequency     string  `json:"frequency" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Category      string  `json:"category" validate:"required,oneof=sports news entertainment lifestyle technology finance politics other"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof=active cancelled expired"`
	StartDate     string  `json:"start_date" validate:"required"`
	RenewalDate   string  `json:"renewal_date"`
}
