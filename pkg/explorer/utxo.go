package explorer

// Utxo represents a spendable transaction output of the Dogecoin chain.
type Utxo interface {
	Hash() string
	Index() uint32
	Value() uint64
	Script() []byte
	IsConfirmed() bool
}

// NewUtxo returns a new Utxo identified by the given outpoint
func NewUtxo(
	hash string,
	index uint32,
	value uint64,
	script []byte,
	confirmed bool,
) Utxo {
	return utxo{
		UHash:      hash,
		UIndex:     index,
		UValue:     value,
		UScript:    script,
		UConfirmed: confirmed,
	}
}

type utxo struct {
	UHash      string `json:"txid"`
	UIndex     uint32 `json:"vout"`
	UValue     uint64 `json:"value"`
	UScript    []byte `json:"script"`
	UConfirmed bool   `json:"confirmed"`
}

func (u utxo) Hash() string {
	return u.UHash
}

func (u utxo) Index() uint32 {
	return u.UIndex
}

func (u utxo) Value() uint64 {
	return u.UValue
}

func (u utxo) Script() []byte {
	return u.UScript
}

func (u utxo) IsConfirmed() bool {
	return u.UConfirmed
}
