package calc

// Formula is a pure function over an ordered list of numbers. A nil
// result means the formula's precondition failed (wrong arity, division
// by zero) — that is a defined outcome, not an error.
type Formula func(numbers []float64) *float64

// operationOrder fixes the listing order used in prompts and lexical
// operation guessing.
var operationOrder = []string{
	"sum",
	"average",
	"min",
	"max",
	"count",
	"growth_rate",
	"percent_change",
	"inventory_turnover",
	"gross_margin",
	"net_profit",
	"cogs",
	"roi",
	"conversion_rate",
}

var registry = map[string]Formula{
	"sum":                computeSum,
	"average":            computeAverage,
	"min":                computeMin,
	"max":                computeMax,
	"count":              computeCount,
	"growth_rate":        computeGrowthRate,
	"percent_change":     computeGrowthRate,
	"inventory_turnover": computeInventoryTurnover,
	"gross_margin":       computeGrossMargin,
	"net_profit":         computeNetProfit,
	"cogs":               computeCOGS,
	"roi":                computeROI,
	"conversion_rate":    computeConversionRate,
}

// Operations returns the registered operation names in listing order.
func Operations() []string {
	ops := make([]string, len(operationOrder))
	copy(ops, operationOrder)
	return ops
}

// Supported reports whether an operation name is registered.
func Supported(operation string) bool {
	_, ok := registry[operation]
	return ok
}

// Compute runs the named formula over the numbers. The second return is
// false when the operation is unknown. A nil first return with ok=true
// means the formula's precondition failed.
func Compute(operation string, numbers []float64) (*float64, bool) {
	formula, ok := registry[operation]
	if !ok {
		return nil, false
	}
	return formula(numbers), true
}

func ptr(v float64) *float64 {
	return &v
}

func computeSum(numbers []float64) *float64 {
	total := 0.0
	for _, n := range numbers {
		total += n
	}
	return ptr(total)
}

func computeAverage(numbers []float64) *float64 {
	if len(numbers) == 0 {
		return nil
	}
	return ptr(*computeSum(numbers) / float64(len(numbers)))
}

func computeMin(numbers []float64) *float64 {
	if len(numbers) == 0 {
		return nil
	}
	m := numbers[0]
	for _, n := range numbers[1:] {
		if n < m {
			m = n
		}
	}
	return ptr(m)
}

func computeMax(numbers []float64) *float64 {
	if len(numbers) == 0 {
		return nil
	}
	m := numbers[0]
	for _, n := range numbers[1:] {
		if n > m {
			m = n
		}
	}
	return ptr(m)
}

func computeCount(numbers []float64) *float64 {
	return ptr(float64(len(numbers)))
}

// Expects [old_value, new_value]
func computeGrowthRate(numbers []float64) *float64 {
	if len(numbers) < 2 {
		return nil
	}
	old, new := numbers[0], numbers[1]
	if old == 0 {
		return nil
	}
	return ptr((new - old) / old * 100)
}

// Expects [cost_of_goods_sold, average_inventory]
func computeInventoryTurnover(numbers []float64) *float64 {
	if len(numbers) < 2 {
		return nil
	}
	cogs, avgInv := numbers[0], numbers[1]
	if avgInv == 0 {
		return nil
	}
	return ptr(cogs / avgInv)
}

// Expects [revenue, cogs]
func computeGrossMargin(numbers []float64) *float64 {
	if len(numbers) < 2 {
		return nil
	}
	revenue, cogs := numbers[0], numbers[1]
	if revenue == 0 {
		return nil
	}
	return ptr((revenue - cogs) / revenue * 100)
}

// Expects [revenue, cogs, expenses]
func computeNetProfit(numbers []float64) *float64 {
	if len(numbers) < 3 {
		return nil
	}
	return ptr(numbers[0] - numbers[1] - numbers[2])
}

// Expects [beginning_inventory, purchases, ending_inventory]
func computeCOGS(numbers []float64) *float64 {
	if len(numbers) < 3 {
		return nil
	}
	return ptr(numbers[0] + numbers[1] - numbers[2])
}

// Expects [gain_from_investment, cost_of_investment]
func computeROI(numbers []float64) *float64 {
	if len(numbers) < 2 {
		return nil
	}
	gain, cost := numbers[0], numbers[1]
	if cost == 0 {
		return nil
	}
	return ptr((gain - cost) / cost * 100)
}

// Expects [conversions, total_visitors]
func computeConversionRate(numbers []float64) *float64 {
	if len(numbers) < 2 {
		return nil
	}
	conversions, visitors := numbers[0], numbers[1]
	if visitors == 0 {
		return nil
	}
	return ptr(conversions / visitors * 100)
}
