package registry

// Operation names, used as metric labels and in persistence errors
const (
	OpCreateAccount = "create_account"
	OpGiveItem      = "give_item"
	OpRemoveItem    = "remove_item"
	OpTransferItem  = "transfer_item"
	OpEquip         = "equip"
	OpWipeRealm     = "wipe_realm"
)

// Log messages
const (
	LogMsgRegistryLoaded        = "Registry loaded"
	LogMsgAccountCreated        = "Account created"
	LogMsgLegacyAccountMigrated = "Migrated legacy account"
	LogMsgItemGiven             = "Item given"
	LogMsgItemRemoved           = "Item removed"
	LogMsgItemTransferred       = "Item transferred"
	LogMsgItemEquipped          = "Item equipped"
	LogMsgRealmWiped            = "Realm wiped"
	LogMsgPersistFailed         = "Failed to persist registry, change rolled back"
	LogMsgEquipmentSanitized    = "Cleared equipment slots that referenced missing stash items"
	LogMsgRealmResolveFailed    = "Failed to resolve realm, skipping its accounts"
	LogMsgRealmTombstoned       = "Skipping accounts of unresolvable realm"
	LogMsgLegacyRecordParked    = "New realm shares its id with a legacy user, legacy record moved aside"
)
