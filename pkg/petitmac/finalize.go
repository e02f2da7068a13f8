package petitmac

import "github.com/go-lemac/lemacd/pkg/aes128"

// finalize mixes the nonce and final subkeys with the UHF's final state and
// registers into the 128-bit tag. Each of the six sliding 10-block windows
// over Final is applied to the lane state and one register, in the order
// state, R0, R1, R2, R3, R4.
func finalize(sched Schedule, nonce Block, state Block, r registers) Block {
	t := xorBlock(nonce, aes128.EncryptBlock(sched.NonceKey1, nonce))

	inputs := [6]Block{state, r.R0, r.R1, r.R2, r.R3, r.R4}
	for i, in := range inputs {
		var subkeys [10]Block
		copy(subkeys[:], sched.Final[i:i+10])
		t = xorBlock(t, aes128.Modified(in, subkeys))
	}

	return aes128.EncryptBlock(sched.NonceKey2, t)
}
