package repository

import "gorm.io/gorm"

// Repositories bundles all repository implementations
type Repositories struct {
	User        UserRepository
	Plan        PlanRepository
	Transaction TransactionRepository
	Budget      BudgetRepository
	Ad          AdRepository
}

// NewRepositories creates all repositories backed by the given DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Plan:        NewPlanRepository(db),
		Transaction: NewTransactionRepository(db),
		Budget:      NewBudgetRepository(db),
		Ad:          NewAdRepository(db),
	}
}
