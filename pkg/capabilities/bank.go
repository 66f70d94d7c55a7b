package capabilities

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a bank account.
type AccountType int

const (
	AccountUnknown AccountType = iota
	AccountChecking
	AccountSavings
	AccountDeposit
	AccountLoan
	AccountCard
	AccountMarket
	AccountLifeInsurance
)

var accountTypeNames = map[AccountType]string{
	AccountUnknown:       "unknown",
	AccountChecking:      "checking",
	AccountSavings:       "savings",
	AccountDeposit:       "deposit",
	AccountLoan:          "loan",
	AccountCard:          "card",
	AccountMarket:        "market",
	AccountLifeInsurance: "lifeinsurance",
}

func (t AccountType) String() string {
	if s, ok := accountTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Account is one bank account as listed by a site.
type Account struct {
	ID       string
	Label    Value[string]
	Balance  Value[decimal.Decimal]
	Currency Value[string]
	IBAN     Value[string]
	Type     Value[AccountType]
}

func (a Account) RecordID() string { return a.ID }

// TransactionType classifies one account operation.
type TransactionType int

const (
	TransactionUnknown TransactionType = iota
	TransactionTransfer
	TransactionCard
	TransactionCheck
	TransactionWithdrawal
	TransactionDeposit
	TransactionOrder
	TransactionBank
)

var transactionTypeNames = map[TransactionType]string{
	TransactionUnknown:    "unknown",
	TransactionTransfer:   "transfer",
	TransactionCard:       "card",
	TransactionCheck:      "check",
	TransactionWithdrawal: "withdrawal",
	TransactionDeposit:    "deposit",
	TransactionOrder:      "order",
	TransactionBank:       "bank",
}

func (t TransactionType) String() string {
	if s, ok := transactionTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Transaction is one operation in an account history.
type Transaction struct {
	ID       string
	Date     Value[time.Time]
	RawLabel Value[string]
	Label    Value[string]
	Amount   Value[decimal.Decimal]
	Type     Value[TransactionType]
}

func (t Transaction) RecordID() string { return t.ID }
