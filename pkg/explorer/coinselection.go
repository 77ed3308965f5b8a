package explorer

// SelectUnspents performs a greedy coin selection over the given list of
// utxos. Coins are taken in the given order until their total value reaches
// targetAmount. When the whole list does not cover the target, every coin is
// returned along with a total lower than the target: it's up to the caller
// to treat this as a failure.
func SelectUnspents(
	utxos []Utxo,
	targetAmount uint64,
) (coins []Utxo, totalAmount uint64) {
	coins = make([]Utxo, 0)

	for _, u := range utxos {
		if totalAmount >= targetAmount {
			break
		}
		coins = append(coins, u)
		totalAmount += u.Value()
	}

	return
}

// ConfirmedUnspents returns the confirmed coins of the given list, in the same
// order.
func ConfirmedUnspents(utxos []Utxo) []Utxo {
	confirmed := make([]Utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.IsConfirmed() {
			confirmed = append(confirmed, u)
		}
	}
	return confirmed
}
