package alertstore

import "github.com/KasumiMercury/primind-attendance-alerts/internal/domain"

// Keys share a hash tag so the scripts touch a single cluster slot.
const keyPrefix = "alerts:"

func recipientTag(key domain.RecipientKey) string {
	return keyPrefix + "{" + key.String() + "}"
}

// itemsKey is a hash of alert id to JSON item.
func itemsKey(key domain.RecipientKey) string {
	return recipientTag(key) + ":items"
}

// orderKey is a sorted set of alert ids scored by creation time.
func orderKey(key domain.RecipientKey) string {
	return recipientTag(key) + ":order"
}

// eventsChannel receives a message on every write to the record.
func eventsChannel(key domain.RecipientKey) string {
	return recipientTag(key) + ":events"
}

func noticeKey(key domain.RecipientKey) string {
	return recipientTag(key) + ":notice"
}
