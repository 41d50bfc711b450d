package rsaenc

import (
	"encoding/hex"
	"math/big"
)

// Reference vectors. The PKCS1 vector is Example 1.1 of
// pkcs1v15crypt-vectors.txt; the OAEP vector is the PKCS #1 v2.0 example
// (n = bbf82f09..., e = 0x11).
const (
	mgf1Seed = "" +
		"032e45326fa859a72ec235acff929b15d1372e30b207255f0611b8f785d76437" +
		"4152e0ac009e509e7ba30cd2f1778e113b64e135cf4e2292c75efe5288edfda4"

	mgf1Mask = "" +
		"5f8de105b5e96b2e490ddecbd147dd1def7e3b8e0e6a26eb7b956ccb8b3bdc1c" +
		"a975bc57c3989e8fbad31a224655d800c46954840ff32052cdf0d640562bdfad" +
		"fa263cfccf3c52b29f2af4a1869959bc77f854cf15bd7a25192985a842dbff8e" +
		"13efee5b7e7e55bbe4d389647c686a9a9ab3fb889b2d7767d3837eea4e0a2f04"

	pkcs1Modulus = "" +
		"a8b3b284af8eb50b387034a860f146c4919f318763cd6c5598c8ae4811a1e0ab" +
		"c4c7e0b082d693a5e7fced675cf4668512772c0cbc64a742c6c630f533c8cc72" +
		"f62ae833c40bf25842e984bb78bdbf97c0107d55bdb662f5c4e0fab9845cb514" +
		"8ef7392dd3aaff93ae1e6b667bb3d4247616d4f5ba10d4cfd226de88d39f16fb"

	pkcs1Message = "" +
		"6628194e12073db03ba94cda9ef9532397d50dba79b987004afefe34"

	pkcs1Random = "" +
		"017341ae3875d5f87101f8cc4fa9b9bc156bb04628fccdb2f4f11e905bd3a155" +
		"d376f593bd7304210874eba08a5e22bcccb4c9d3882a93a54db022f503d16338" +
		"b6b7ce16dc7f4bbf9a96b59772d6606e9747c7649bf9e083db981884a954ab3c" +
		"6f"

	pkcs1Ciphertext = "" +
		"50b4c14136bd198c2f3c3ed243fce036e168d56517984a263cd66492b80804f1" +
		"69d210f2b9bdfb48b12f9ea05009c77da257cc600ccefe3a6283789d8ea0e607" +
		"ac58e2690ec4ebc10146e8cbaa5ed4d5cce6fe7b0ff9efc1eabb564dbf498285" +
		"f449ee61dd7b42ee5b5892cb90601f30cda07bf26489310bcd23b528ceab3c31"

	oaepModulus = "" +
		"bbf82f090682ce9c2338ac2b9da871f7368d07eed41043a440d6b6f07454f51f" +
		"b8dfbaaf035c02ab61ea48ceeb6fcd4876ed520d60e1ec4619719d8a5b8b807f" +
		"afb8e0a3dfc737723ee6b4b7d93a2584ee6a649d060953748834b2454598394e" +
		"e0aab12d7b61a51f527a9a41f6c1687fe2537298ca2a8f5946f8e5fd091dbdcb"

	oaepMessage = "" +
		"d436e99569fd32a7c8a05bbc90d32c49"

	oaepSeed = "" +
		"aafd12f659cae63489b479e5076ddec2f06cb58f"

	oaepCiphertext = "" +
		"1253e04dc0a5397bb44a7ab87e9bf2a039a33d1e996fc82a94ccd30074c95df7" +
		"63722017069e5268da5d1c0b4f872cf653c11df82314a67968dfeae28def04bb" +
		"6d84b1c31d654a1970e5783bd6eb96a024c2ca2f4a90fe9f2ef5c9c140e5bb48" +
		"da9536ad8700c84fc9130adea74e558d51a74ddf85d8b50de96838d6063e0955"

	leadingZeroCiphertext = "" +
		"007aa707333b498abc1acd5d7b91cf61e19b0ed12951121d312a77fcd026b255" +
		"c7ffee2547be047f7ea1e0daefca3e46fe664b6d4da5fad2f61095d307c2a9b8" +
		"a38e7de5575cbb6d2a33a56341fbfd382590b1abc4d9bca0fa6d0e477e7605f8" +
		"60297bb1938d76cb5635defa104eac5db794cecc63d410852733907a001aae84"
)

// leadingZeroRandom drives PKCS1 padding of pkcs1Message under the
// pkcs1Modulus key to a ciphertext below 256^127.
var leadingZeroRandom = append(repeat([]byte{0x01, 0xaf}, 48), 0x01)

func repeat(b []byte, n int) []byte {
	out := make([]byte, 0, len(b)*n)
	for j := 0; j < n; j++ {
		out = append(out, b...)
	}
	return out
}

func unhex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func bigHex(s string) *big.Int {
	return new(big.Int).SetBytes(unhex(s))
}
