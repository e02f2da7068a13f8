package lemac

import "github.com/go-lemac/lemacd/pkg/aes128"

// finalize mixes the nonce and final subkeys with the UHF's final state
// into the 128-bit tag.
func finalize(sched Schedule, nonce Block, state [9]Block) Block {
	t := xorBlock(nonce, aes128.EncryptBlock(sched.NonceKey1, nonce))

	for i := 0; i < 9; i++ {
		var subkeys [10]Block
		copy(subkeys[:], sched.Final[i:i+10])
		t = xorBlock(t, aes128.Modified(state[i], subkeys))
	}

	return aes128.EncryptBlock(sched.NonceKey2, t)
}
