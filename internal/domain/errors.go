package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrInvestmentNotFound     = errors.New("investment not found")
	ErrGoalNotFound           = errors.New("goal not found")
	ErrRecurringNotFound      = errors.New("recurring commitment not found")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidFrequency       = errors.New("invalid frequency")
	ErrInvalidTenor           = errors.New("tenor must not be negative")
	ErrInvalidLimit           = errors.New("budget limit must be positive")
	ErrInvalidTarget          = errors.New("goal target must be positive")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidPrice           = errors.New("price must not be negative")
	ErrCategoryRequired       = errors.New("category is required")
	ErrNotObligation          = errors.New("only debts and receivables can be repaid")
	ErrAlreadyPaid            = errors.New("transaction is already paid")
	ErrOverpayment            = errors.New("payment exceeds remaining amount")
	ErrAmountBelowPaid        = errors.New("amount is below the amount already paid")
	ErrCommitmentFulfilled    = errors.New("commitment has completed its tenor")
	ErrInvalidCurrency        = errors.New("unsupported currency")
	ErrInvalidLang            = errors.New("unsupported language")
	ErrInvalidTheme           = errors.New("unsupported theme")
	ErrInvalidBackup          = errors.New("invalid backup file format")
	ErrStorageNotConfigured   = errors.New("object storage not configured")
)
