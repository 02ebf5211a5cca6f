package broker

import (
	"time"

	"feedbridge/internal/adapter/enum"
)

// Contract is the upstream contract shape.
type Contract struct {
	SecurityType         enum.SecurityType
	Code                 string
	Symbol               string
	Name                 string
	Category             string
	Currency             string
	Exchange             string
	DayTrade             string
	DeliveryDate         string
	DeliveryMonth        string
	OptionRight          string
	TargetCode           string
	UnderlyingCode       string
	UnderlyingKind       string
	UpdateDate           string
	LimitUp              float64
	LimitDown            float64
	Reference            float64
	StrikePrice          float64
	Multiplier           int64
	Unit                 int64
	MarginTradingBalance int64
	ShortSellingBalance  int64
}

// Contracts groups every contract the upstream knows, by category.
type Contracts struct {
	Stocks  [][]Contract
	Futures [][]Contract
	Options [][]Contract
}

type Tick struct {
	Code            string
	DateTime        time.Time
	Open            float64
	UnderlyingPrice float64
	AvgPrice        float64
	Close           float64
	High            float64
	Low             float64
	Amount          float64
	TotalAmount     float64
	PriceChg        float64
	PctChg          float64
	BidSideTotalVol int64
	AskSideTotalVol int64
	Volume          int64
	TotalVolume     int64
	TickType        int32
	ChgType         int32
	Simtrade        bool
}

type BidAsk struct {
	Code                 string
	DateTime             time.Time
	BidTotalVol          int64
	AskTotalVol          int64
	BidPrice             []float64
	BidVolume            []int64
	DiffBidVol           []int64
	AskPrice             []float64
	AskVolume            []int64
	DiffAskVol           []int64
	FirstDerivedBidPrice float64
	FirstDerivedAskPrice float64
	FirstDerivedBidVol   int64
	FirstDerivedAskVol   int64
	UnderlyingPrice      float64
	Simtrade             bool
}

type FeedEvent struct {
	RespCode  int32
	EventCode int32
	Info      string
	Event     string
}

// OrderState tags an order-lifecycle callback.
type OrderState string

const (
	OrderStateStockOrder   OrderState = "StockOrder"
	OrderStateStockDeal    OrderState = "StockDeal"
	OrderStateFuturesOrder OrderState = "FuturesOrder"
	OrderStateFuturesDeal  OrderState = "FuturesDeal"
)

// Upstream order vocabularies. Values outside these sets are legal and map
// to the UNKNOWN sentinels during translation.
const (
	ActionBuy  = "Buy"
	ActionSell = "Sell"

	StatusPendingSubmit = "PendingSubmit"
	StatusPreSubmitted  = "PreSubmitted"
	StatusSubmitted     = "Submitted"
	StatusPartFilled    = "PartFilled"
	StatusFilled        = "Filled"
	StatusCancelled     = "Cancelled"
	StatusFailed        = "Failed"
	StatusInactive      = "Inactive"

	OrderLotCommon      = "Common"
	OrderLotOdd         = "Odd"
	OrderLotIntradayOdd = "IntradayOdd"
	OrderLotFixing      = "Fixing"

	PriceTypeLMT = "LMT"
	OrderTypeROD = "ROD"
	OCTypeAuto   = "Auto"

	FetchStatusUnfetch  = "Unfetch"
	FetchStatusFetching = "Fetching"
	FetchStatusFetched  = "Fetched"
)

// OrderRequest is what PlaceOrder sends upstream.
type OrderRequest struct {
	Action    string
	Price     float64
	Quantity  int64
	PriceType string
	OrderType string
	OCType    string
}

type Order struct {
	ID        string
	Action    string
	Price     float64
	Quantity  int64
	OrderLot  string
	PriceType string
	OrderType string
	OCType    string
}

type OrderStatus struct {
	ID             string
	Status         string
	StatusCode     string
	OrderTime      *time.Time
	ModifiedPrice  float64
	DealQuantity   int64
	CancelQuantity int64
}

// Trade is the upstream order handle: contract + order + status.
type Trade struct {
	Contract Contract
	Order    Order
	Status   OrderStatus
}

type Kbars struct {
	Ts     []int64
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []int64
}

type Margin struct {
	Status                    string
	YesterdayBalance          float64
	TodayBalance              float64
	DepositWithdrawal         float64
	Fee                       float64
	Tax                       float64
	InitialMargin             float64
	MaintenanceMargin         float64
	MarginCall                float64
	RiskIndicator             float64
	RoyaltyRevenueExpenditure float64
	Equity                    float64
	EquityAmount              float64
	OptionOpenbuyMarketValue  float64
	OptionOpensellMarketValue float64
	OptionOpenPosition        float64
	OptionSettleProfitloss    float64
	FutureOpenPosition        float64
	TodayFutureOpenPosition   float64
	FutureSettleProfitloss    float64
	AvailableMargin           float64
	PlusMargin                float64
	PlusMarginIndicator       float64
	SecurityCollateralAmount  float64
	OrderMarginPremium        float64
	CollateralAmount          float64
}

type FuturePosition struct {
	ID        int64
	Code      string
	Direction string
	Quantity  int64
	Price     float64
	LastPrice float64
	Pnl       float64
}

type ScannerItem struct {
	Code        string
	TotalVolume int64
}

type Usage struct {
	Connections    int32
	Bytes          int64
	LimitBytes     int64
	RemainingBytes int64
}
