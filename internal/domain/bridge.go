package domain

// BridgeKind tags how an existing destination-chain representation was issued.
type BridgeKind string

// Bridge kinds.
const (
	// BridgeNative means the issuer deployed natively on the destination chain.
	BridgeNative BridgeKind = "native"
	// BridgeWrapped means a wrapped representation exists via attestation.
	BridgeWrapped BridgeKind = "wrapped"
	// BridgeNativeTransfer means a lock/burn-and-mint deployment already exists.
	BridgeNativeTransfer BridgeKind = "native_transfer"
)

// AddressClass tells whether a destination address is a regular keypair
// account or a program-derived one.
type AddressClass string

// Address classes.
const (
	// AddressOnCurve is a keypair-controlled account.
	AddressOnCurve AddressClass = "on_curve"
	// AddressOffCurve is a program-derived address, only a program can
	// sign for it.
	AddressOffCurve AddressClass = "off_curve"
)

// DisplayName returns a human-readable label for the class.
func (c AddressClass) DisplayName() string {
	switch c {
	case AddressOnCurve:
		return "keypair (on curve)"
	case AddressOffCurve:
		return "program-derived (off curve)"
	default:
		return string(c)
	}
}

// BridgeStatus describes existing destination-chain presence for a token.
// The zero value means "fresh token, no known presence".
type BridgeStatus struct {
	AlreadyOnDestination bool         `json:"already_on_destination"`
	DestinationAddress   string       `json:"destination_address,omitempty"`
	DestinationClass     AddressClass `json:"destination_class,omitempty"`
	Provider             string       `json:"provider,omitempty"`
	Kind                 BridgeKind   `json:"kind,omitempty"`
	Attested             bool         `json:"attested"`
}
