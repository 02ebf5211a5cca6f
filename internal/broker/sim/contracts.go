package sim

import (
	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
)

// DefaultContracts is the catalog a fresh Client serves. Stock category "00"
// holds index entries.
func DefaultContracts() broker.Contracts {
	return broker.Contracts{
		Stocks: [][]broker.Contract{
			{
				stock("001", "TSE001", "00", 17500),
				stock("101", "OTC101", "00", 230),
			},
			{
				stock("2330", "TSMC", "24", 580),
				stock("2317", "HON HAI", "24", 104),
				stock("2454", "MEDIATEK", "24", 870),
			},
			{
				stock("2881", "FUBON FHC", "17", 64.5),
			},
		},
		Futures: [][]broker.Contract{
			{
				future("TXFA4", "TXF202401", "TXF", "2024/01/17", "202401", 17500, 200),
				future("TXFB4", "TXF202402", "TXF", "2024/02/21", "202402", 17520, 200),
			},
			{
				future("MXFA4", "MXF202401", "MXF", "2024/01/17", "202401", 17500, 50),
			},
		},
		Options: [][]broker.Contract{
			{
				option("TXO17500A4", "TXO20240117500C", "C", 17500, 210),
				option("TXO17500M4", "TXO20240117500P", "P", 17500, 185),
			},
		},
	}
}

func stock(code, name, category string, ref float64) broker.Contract {
	return broker.Contract{
		SecurityType: enum.SecurityStock,
		Code:         code,
		Symbol:       "TSE" + code,
		Name:         name,
		Category:     category,
		Currency:     "TWD",
		Exchange:     "TSE",
		DayTrade:     "Yes",
		Reference:    ref,
		LimitUp:      ref * 1.1,
		LimitDown:    ref * 0.9,
		Unit:         1000,
		UpdateDate:   "2024/01/10",
	}
}

func future(code, symbol, category, deliveryDate, deliveryMonth string, ref float64, multiplier int64) broker.Contract {
	return broker.Contract{
		SecurityType:   enum.SecurityFuture,
		Code:           code,
		Symbol:         symbol,
		Name:           category + deliveryMonth,
		Category:       category,
		Currency:       "TWD",
		Exchange:       "TAIFEX",
		DeliveryDate:   deliveryDate,
		DeliveryMonth:  deliveryMonth,
		UnderlyingKind: "I",
		Reference:      ref,
		LimitUp:        ref * 1.1,
		LimitDown:      ref * 0.9,
		Multiplier:     multiplier,
		Unit:           1,
		UpdateDate:     "2024/01/10",
	}
}

func option(code, symbol, right string, strike, ref float64) broker.Contract {
	return broker.Contract{
		SecurityType:   enum.SecurityOption,
		Code:           code,
		Symbol:         symbol,
		Name:           "TXO" + symbol[3:9],
		Category:       "TXO",
		Currency:       "TWD",
		Exchange:       "TAIFEX",
		DeliveryDate:   "2024/01/17",
		DeliveryMonth:  "202401",
		OptionRight:    right,
		StrikePrice:    strike,
		UnderlyingKind: "I",
		UnderlyingCode: "TXFA4",
		Reference:      ref,
		LimitUp:        ref * 2,
		LimitDown:      0.1,
		Multiplier:     50,
		Unit:           1,
		UpdateDate:     "2024/01/10",
	}
}
