package risk

// RiskAmount is the account-currency amount put at risk on one trade.
func RiskAmount(equity, fraction float64) float64 {
	if equity <= 0 || fraction <= 0 {
		return 0
	}
	return equity * fraction
}

// RMultiple expresses a P/L as a multiple of the amount risked.
// It returns 0 when riskAmount is not positive.
func RMultiple(pl, riskAmount float64) float64 {
	if riskAmount <= 0 {
		return 0
	}
	return pl / riskAmount
}

// WorstTradeFraction is the fraction of equity a single full loss costs,
// friction included.
func WorstTradeFraction(riskPerTrade, avgLossR, feeAndFriction float64) float64 {
	return riskPerTrade*avgLossR + feeAndFriction
}

// EdgeR is the expectancy of one trade in R, before friction.
func EdgeR(winRate, avgWinR, avgLossR float64) float64 {
	return winRate*avgWinR - (1-winRate)*avgLossR
}
