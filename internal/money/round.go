package money

import "math/big"

var one = big.NewInt(1)

func pow10(digits int) *big.Int {
	if digits <= 0 {
		return big.NewInt(1)
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
}

// scaled returns r * 10^digits rounded half to even.
func scaled(r *big.Rat, digits int) *big.Int {
	n := new(big.Int).Mul(r.Num(), pow10(digits))
	d := r.Denom()

	q, rem := new(big.Int).QuoRem(n, d, new(big.Int))
	if rem.Sign() == 0 {
		return q
	}

	twice := new(big.Int).Abs(rem)
	twice.Lsh(twice, 1)
	c := twice.Cmp(d)
	if c > 0 || (c == 0 && new(big.Int).Abs(q).Bit(0) == 1) {
		if n.Sign() < 0 {
			q.Sub(q, one)
		} else {
			q.Add(q, one)
		}
	}
	return q
}
