package enum

// SecurityType identifies a contract family. The broker acknowledges one
// readiness callback per security type during login.
type SecurityType uint8

const (
	_security_type_beg SecurityType = iota
	SecurityIndex
	SecurityStock
	SecurityFuture
	SecurityOption
	_security_type_end
)

func (t SecurityType) IsAvailable() bool {
	return t > _security_type_beg && t < _security_type_end
}

func (t SecurityType) String() string {
	switch t {
	case SecurityIndex:
		return "IND"
	case SecurityStock:
		return "STK"
	case SecurityFuture:
		return "FUT"
	case SecurityOption:
		return "OPT"
	default:
		return "UNKNOWN"
	}
}

// SecurityTypes lists every available type, in acknowledgement order.
func SecurityTypes() []SecurityType {
	types := make([]SecurityType, 0, int(_security_type_end)-1)
	for t := _security_type_beg + 1; t < _security_type_end; t++ {
		types = append(types, t)
	}
	return types
}
