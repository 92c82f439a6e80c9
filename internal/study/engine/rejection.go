package engine

import (
	"github.com/louisbranch/studyforge/internal/study/loot"
	"github.com/louisbranch/studyforge/internal/study/session"
)

const (
	rejectionCodeActionUnsupported    = "ACTION_UNSUPPORTED"
	rejectionCodeTickInvalid          = "TICK_INVALID"
	rejectionCodeSessionTopicRequired = "SESSION_TOPIC_REQUIRED"
	rejectionCodeSessionNotStudying   = "SESSION_NOT_STUDYING"
	rejectionCodeSessionNotResting    = "SESSION_NOT_RESTING"
	rejectionCodeSessionLengthInvalid = "SESSION_LENGTH_INVALID"
	rejectionCodeTopicNotFound        = "TOPIC_NOT_FOUND"
	rejectionCodeTopicInvalid         = "TOPIC_INVALID"
	rejectionCodeTopicAlreadyExists   = "TOPIC_ALREADY_EXISTS"
	rejectionCodeCatalogInvalid       = "CATALOG_INVALID"
	rejectionCodeItemNotFound         = "ITEM_NOT_FOUND"
	rejectionCodeSlotEmpty            = "SLOT_EMPTY"
	rejectionCodeCraftIllegal         = "CRAFT_ILLEGAL"
	rejectionCodeInsufficientCurrency = "CURRENCY_INSUFFICIENT"
	rejectionCodeCurrencyInvalid      = "CURRENCY_INVALID"
	rejectionCodeReviewQualityInvalid = "REVIEW_QUALITY_INVALID"
	rejectionCodeEffectInvalid        = "EFFECT_INVALID"
)

// Rejection explains why an action left the state unchanged.
type Rejection struct {
	Code    string
	Message string
}

// Outcome reports what one action did.
type Outcome struct {
	Accepted  bool
	Rejection Rejection
	// Cycles lists the study cycles completed by the action, in order.
	Cycles []session.CycleRecord
	// Drops lists the loot of each completed cycle, parallel to Cycles.
	Drops []loot.Drop
	// LevelsGained counts character level-ups caused by the action.
	LevelsGained int
}

func reject(code, message string) Outcome {
	return Outcome{Rejection: Rejection{Code: code, Message: message}}
}

func accept() Outcome {
	return Outcome{Accepted: true}
}
