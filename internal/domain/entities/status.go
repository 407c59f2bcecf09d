package entities

// StatusGroup agrupa os status livres do funil.
type StatusGroup string

const (
	GroupClosed            StatusGroup = "closed"
	GroupPendingService    StatusGroup = "pendingService"
	GroupServicedNotClosed StatusGroup = "servicedNotClosed"
	GroupLostOrInactive    StatusGroup = "lostOrInactive"
	GroupMentee            StatusGroup = "mentee"
)

// StatusGroups lista os grupos na ordem em que aparecem no funil.
var StatusGroups = []StatusGroup{
	GroupClosed,
	GroupPendingService,
	GroupServicedNotClosed,
	GroupLostOrInactive,
	GroupMentee,
}
