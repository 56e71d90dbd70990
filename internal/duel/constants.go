package duel

// Defaults applied to zero-valued Options fields
const (
	DefaultStartingHP = 50
	DefaultMaxRounds  = 1000
)

// Log messages
const (
	LogMsgDuelStarted       = "Duel started"
	LogMsgDuelFinished      = "Duel finished"
	LogMsgDuelRejected      = "Duel rejected"
	LogMsgDuelCapped        = "Duel hit the round cap"
	LogMsgPotionConsumed    = "Potion consumed"
	LogMsgPotionAlreadyGone = "Equipped potion no longer in stash, marking it used"
)

// Error messages
const (
	ErrMsgUnknownTermination = "unknown duel termination policy"
	ErrMsgConsumePotion      = "failed to consume potion"
)
