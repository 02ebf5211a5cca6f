package ingest

import (
	"fmt"

	"feedbridge/internal/broker"
)

// describeOrderEvent renders the log line for an order or deal callback. ok
// is false when the message lacks a contract code.
func describeOrderEvent(state broker.OrderState, msg map[string]any) (string, bool) {
	switch state {
	case broker.OrderStateStockOrder, broker.OrderStateFuturesOrder:
		operation := nested(msg, "operation")
		order := nested(msg, "order")
		code := str(nested(msg, "contract")["code"])
		if code == "" {
			return "", false
		}
		return fmt.Sprintf("%s order: %s %s %.2f %d %s",
			str(operation["op_type"]),
			code,
			str(order["action"]),
			num(order["price"]),
			int64(num(order["quantity"])),
			str(order["id"]),
		), true
	case broker.OrderStateStockDeal, broker.OrderStateFuturesDeal:
		code := str(msg["code"])
		if code == "" {
			return "", false
		}
		return fmt.Sprintf("deal: %s %s %.2f %d %s",
			code,
			str(msg["action"]),
			num(msg["price"]),
			int64(num(msg["quantity"])),
			str(msg["trade_id"]),
		), true
	default:
		return "", false
	}
}

func nested(msg map[string]any, key string) map[string]any {
	if v, ok := msg[key].(map[string]any); ok {
		return v
	}
	return nil
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
