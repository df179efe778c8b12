package quotes

type Status string

const (
	StatusPending      Status = "PENDING"
	StatusCounterOffer Status = "COUNTER_OFFER"
	StatusAccepted     Status = "ACCEPTED"
	StatusRejected     Status = "REJECTED"
	StatusQuoted       Status = "QUOTED"
)

// Every response branch is terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending: {
		StatusCounterOffer: true,
		StatusAccepted:     true,
		StatusRejected:     true,
		StatusQuoted:       true,
	},
	StatusCounterOffer: {},
	StatusAccepted:     {},
	StatusRejected:     {},
	StatusQuoted:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

type UserType string

const (
	UserBuyer    UserType = "BUYER"
	UserSupplier UserType = "SUPPLIER"
)

func (u UserType) Valid() bool { return u == UserBuyer || u == UserSupplier }

// responderCan lists which side may move a quote into which status.
var responderCan = map[UserType]map[Status]bool{
	UserSupplier: {StatusQuoted: true, StatusCounterOffer: true, StatusAccepted: true, StatusRejected: true},
	UserBuyer:    {StatusRejected: true},
}
