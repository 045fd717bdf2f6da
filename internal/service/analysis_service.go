package service

import (
	"sort"
	"time"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalysisService produces the category-wise spending breakdown.
type AnalysisService struct {
	transactions domain.TransactionStore
	clock        util.Clock
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(transactions domain.TransactionStore, clock util.Clock) *AnalysisService {
	return &AnalysisService{
		transactions: transactions,
		clock:        clock,
	}
}

// CategorySpending is one slice of the analysis breakdown.
type CategorySpending struct {
	Category   domain.Category
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// AggregateByCategory groups expense transactions inside the trailing window
// ending at now, sums each category, and computes each category's share of
// the filtered total. Results are sorted by amount descending; equal amounts
// keep the canonical category order. A zero total means every share is zero.
func AggregateByCategory(transactions []domain.Transaction, window util.Window, now time.Time) []CategorySpending {
	start := util.WindowStart(now, window)

	sums := make(map[domain.Category]decimal.Decimal)
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		if !util.InWindow(tx.Date, start) {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
		total = total.Add(tx.Amount)
	}

	result := make([]CategorySpending, 0, len(sums))
	for category, amount := range sums {
		result = append(result, CategorySpending{
			Category:   category,
			Amount:     amount,
			Percentage: domain.SharePercent(amount, total),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Amount.Equal(result[j].Amount) {
			return result[i].Amount.GreaterThan(result[j].Amount)
		}
		return result[i].Category.Rank() < result[j].Category.Rank()
	})

	return result
}

// Analyze loads the user's transactions and aggregates spending for the
// requested window.
func (s *AnalysisService) Analyze(userID uuid.UUID, window util.Window) ([]CategorySpending, error) {
	transactions, err := s.transactions.GetTransactions(userID)
	if err != nil {
		return nil, err
	}
	return AggregateByCategory(transactions, window, s.clock.Now()), nil
}
