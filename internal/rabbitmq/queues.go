package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для привязки к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации уведомлений об истечении.
const (
	RoutingKeyTrialExpiring   = "trial_expiring"
	RoutingKeyPremiumExpiring = "premium_expiring"
)

// Имена очередей отправителя уведомлений.
const (
	TrialExpiringQueue   = "notifications.trial_expiring"
	PremiumExpiringQueue = "notifications.premium_expiring"
)

// GetNotificationQueues возвращает очереди уведомлений об истечении
// пробного периода и премиума.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: TrialExpiringQueue, RoutingKey: RoutingKeyTrialExpiring},
		{QueueName: PremiumExpiringQueue, RoutingKey: RoutingKeyPremiumExpiring},
	}
}
