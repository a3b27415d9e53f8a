package targetfeatures

import "fmt"

// featureDef declares a feature by name. Implications are listed by the
// names of features of the same architecture and may be direct only:
// the table builder flattens them.
type featureDef struct {
	arch        Architecture
	name        string
	description string
	implies     []string
}

// featureEntry is a resolved table entry.
type featureEntry struct {
	arch        Architecture
	name        string
	description string
	implies     []Feature
}

// catalog is the feature database. A feature's identity is its position in
// this array, so entries must never be reordered at runtime.
var catalog = [...]featureDef{
	// Arm
	{ArchArm, "aclass", "Is application profile ('A' series)", nil},
	{ArchArm, "aes", "Enable AES support", []string{"neon"}},
	{ArchArm, "crc", "Enable support for CRC instructions", nil},
	{ArchArm, "d32", "Extend FP to 32 double registers", nil},
	{ArchArm, "dotprod", "Enable support for dot product instructions", []string{"neon"}},
	{ArchArm, "dsp", "Supports DSP instructions in ARM and/or Thumb2", nil},
	{ArchArm, "fp-armv8", "Enable ARMv8 FP", []string{"vfp4"}},
	{ArchArm, "i8mm", "Enable Matrix Multiply Int8 Extension", []string{"neon"}},
	{ArchArm, "mclass", "Is microcontroller profile ('M' series)", nil},
	{ArchArm, "neon", "Enable NEON instructions", []string{"vfp3"}},
	{ArchArm, "rclass", "Is realtime profile ('R' series)", nil},
	{ArchArm, "sha2", "Enable SHA1 and SHA256 support", []string{"neon"}},
	{ArchArm, "thumb-mode", "Thumb mode", nil},
	{ArchArm, "thumb2", "Enable Thumb2 instructions", nil},
	{ArchArm, "trustzone", "Enable support for TrustZone security extensions", nil},
	{ArchArm, "v5te", "Support ARM v5TE, v5TEj, and v5TExp instructions", nil},
	{ArchArm, "v6", "Support ARM v6 instructions", []string{"v5te"}},
	{ArchArm, "v6k", "Support ARM v6k instructions", []string{"v6"}},
	{ArchArm, "v6t2", "Support ARM v6t2 instructions", []string{"v6k", "thumb2"}},
	{ArchArm, "v7", "Support ARM v7 instructions", []string{"v6t2"}},
	{ArchArm, "v8", "Support ARM v8 instructions", []string{"v7"}},
	{ArchArm, "vfp2", "Enable VFP2 instructions", nil},
	{ArchArm, "vfp3", "Enable VFP3 instructions", []string{"vfp2"}},
	{ArchArm, "vfp4", "Enable VFP4 instructions", []string{"vfp3"}},
	{ArchArm, "virtualization", "Supports Virtualization extension", nil},

	// AArch64
	{ArchAArch64, "aes", "Enable AES support", []string{"neon"}},
	{ArchAArch64, "bf16", "Enable BFloat16 Extension", nil},
	{ArchAArch64, "bti", "Enable Branch Target Identification", nil},
	{ArchAArch64, "crc", "Enable ARMv8 CRC-32 checksum instructions", nil},
	{ArchAArch64, "dit", "Enable v8.4-A Data Independent Timing instructions", nil},
	{ArchAArch64, "dotprod", "Enable dot product support", []string{"neon"}},
	{ArchAArch64, "dpb", "Enable v8.2 data Cache Clean to Point of Persistence", nil},
	{ArchAArch64, "dpb2", "Enable v8.5 Cache Clean to Point of Deep Persistence", []string{"dpb"}},
	{ArchAArch64, "f32mm", "Enable Matrix Multiply FP32 Extension", []string{"sve"}},
	{ArchAArch64, "f64mm", "Enable Matrix Multiply FP64 Extension", []string{"sve"}},
	{ArchAArch64, "fcma", "Enable v8.3-A Floating-point complex number support", []string{"neon"}},
	{ArchAArch64, "fhm", "Enable FP16 FML instructions", []string{"fp16"}},
	{ArchAArch64, "flagm", "Enable v8.4-A Flag Manipulation Instructions", nil},
	{ArchAArch64, "fp16", "Full FP16", []string{"neon"}},
	{ArchAArch64, "frintts", "Enable FRInt[32|64][Z|X] instructions", nil},
	{ArchAArch64, "i8mm", "Enable Matrix Multiply Int8 Extension", nil},
	{ArchAArch64, "jsconv", "Enable v8.3-A JavaScript FP conversion instructions", []string{"neon"}},
	{ArchAArch64, "lor", "Enables ARM v8.1 Limited Ordering Regions extension", nil},
	{ArchAArch64, "lse", "Enable ARMv8.1 Large System Extension (LSE) atomic instructions", nil},
	{ArchAArch64, "mte", "Enable Memory Tagging Extension", nil},
	{ArchAArch64, "neon", "Enable Advanced SIMD instructions", nil},
	{ArchAArch64, "paca", "Enable v8.3-A Pointer Authentication (address)", nil},
	{ArchAArch64, "pacg", "Enable v8.3-A Pointer Authentication (generic)", nil},
	{ArchAArch64, "pan", "Enables ARM v8.1 Privileged Access-Never extension", nil},
	{ArchAArch64, "rand", "Enable Random Number generation instructions", nil},
	{ArchAArch64, "ras", "Enable ARMv8 Reliability, Availability and Serviceability Extensions", nil},
	{ArchAArch64, "rcpc", "Enable support for RCPC extension", nil},
	{ArchAArch64, "rcpc2", "Enable v8.4-A RCPC instructions with Immediate Offsets", []string{"rcpc"}},
	{ArchAArch64, "rdm", "Enable ARMv8.1 Rounding Double Multiply Add/Subtract instructions", nil},
	{ArchAArch64, "sb", "Enable v8.5 Speculation Barrier", nil},
	{ArchAArch64, "sha2", "Enable SHA1 and SHA256 support", []string{"neon"}},
	{ArchAArch64, "sha3", "Enable SHA512 and SHA3 support", []string{"sha2"}},
	{ArchAArch64, "sm4", "Enable SM3 and SM4 support", []string{"neon"}},
	{ArchAArch64, "spe", "Enable Statistical Profiling extension", nil},
	{ArchAArch64, "ssbs", "Enable Speculative Store Bypass Safe bit", nil},
	{ArchAArch64, "sve", "Enable Scalable Vector Extension (SVE) instructions", []string{"fp16"}},
	{ArchAArch64, "sve2", "Enable Scalable Vector Extension 2 (SVE2) instructions", []string{"sve"}},
	{ArchAArch64, "sve2-aes", "Enable AES SVE2 instructions", []string{"sve2", "aes"}},
	{ArchAArch64, "sve2-bitperm", "Enable bit permutation SVE2 instructions", []string{"sve2"}},
	{ArchAArch64, "sve2-sha3", "Enable SHA3 SVE2 instructions", []string{"sve2", "sha3"}},
	{ArchAArch64, "sve2-sm4", "Enable SM4 SVE2 instructions", []string{"sve2", "sm4"}},
	{ArchAArch64, "tme", "Enable Transactional Memory Extension", nil},
	{ArchAArch64, "v8.1a", "Support ARM v8.1a instructions", []string{"crc", "lse", "rdm", "pan", "lor", "vh"}},
	{ArchAArch64, "v8.2a", "Support ARM v8.2a instructions", []string{"v8.1a", "ras", "dpb"}},
	{ArchAArch64, "v8.3a", "Support ARM v8.3a instructions", []string{"v8.2a", "rcpc", "paca", "pacg", "jsconv"}},
	{ArchAArch64, "v8.4a", "Support ARM v8.4a instructions", []string{"v8.3a", "dotprod", "dit", "flagm"}},
	{ArchAArch64, "v8.5a", "Support ARM v8.5a instructions", []string{"v8.4a", "ssbs", "sb", "dpb2", "bti"}},
	{ArchAArch64, "v8.6a", "Support ARM v8.6a instructions", []string{"v8.5a", "bf16", "i8mm"}},
	{ArchAArch64, "v8.7a", "Support ARM v8.7a instructions", []string{"v8.6a"}},
	{ArchAArch64, "vh", "Enables ARM v8.1 Virtual Host extension", nil},

	// BPF
	{ArchBPF, "alu32", "Enable ALU32 instructions", nil},

	// Hexagon
	{ArchHexagon, "hvx", "Hexagon HVX instructions", nil},
	{ArchHexagon, "hvx-length128b", "Hexagon HVX 128B instructions", []string{"hvx"}},

	// MIPS
	{ArchMIPS, "fp64", "Support 64-bit FP registers", nil},
	{ArchMIPS, "msa", "Mips MSA ASE", []string{"fp64"}},

	// PowerPC
	{ArchPowerPC, "altivec", "Enable Altivec instructions", nil},
	{ArchPowerPC, "power10-vector", "Enable POWER10 vector instructions", []string{"power9-vector"}},
	{ArchPowerPC, "power8-altivec", "Enable POWER8 Altivec instructions", []string{"altivec"}},
	{ArchPowerPC, "power8-vector", "Enable POWER8 vector instructions", []string{"vsx", "power8-altivec"}},
	{ArchPowerPC, "power9-altivec", "Enable POWER9 Altivec instructions", []string{"power8-altivec"}},
	{ArchPowerPC, "power9-vector", "Enable POWER9 vector instructions", []string{"power8-vector", "power9-altivec"}},
	{ArchPowerPC, "vsx", "Enable VSX instructions", []string{"altivec"}},

	// RISC-V
	{ArchRISCV, "a", "'A' (Atomic Instructions)", nil},
	{ArchRISCV, "c", "'C' (Compressed Instructions)", nil},
	{ArchRISCV, "d", "'D' (Double-Precision Floating-Point)", []string{"f"}},
	{ArchRISCV, "e", "Implements RV32E (provides 16 rather than 32 GPRs)", nil},
	{ArchRISCV, "f", "'F' (Single-Precision Floating-Point)", nil},
	{ArchRISCV, "m", "'M' (Integer Multiplication and Division)", nil},
	{ArchRISCV, "v", "'V' (Vector Extension for Application Processors)", []string{"d"}},
	{ArchRISCV, "zba", "'Zba' (Address Generation Instructions)", nil},
	{ArchRISCV, "zbb", "'Zbb' (Basic Bit-Manipulation)", nil},
	{ArchRISCV, "zbc", "'Zbc' (Carry-Less Multiplication)", nil},
	{ArchRISCV, "zbkb", "'Zbkb' (Bitmanip instructions for Cryptography)", nil},
	{ArchRISCV, "zbkc", "'Zbkc' (Carry-less multiply instructions for Cryptography)", nil},
	{ArchRISCV, "zbkx", "'Zbkx' (Crossbar permutation instructions)", nil},
	{ArchRISCV, "zbs", "'Zbs' (Single-Bit Instructions)", nil},
	{ArchRISCV, "zdinx", "'Zdinx' (Double in Integer)", []string{"zfinx"}},
	{ArchRISCV, "zfh", "'Zfh' (Half-Precision Floating-Point)", []string{"zfhmin"}},
	{ArchRISCV, "zfhmin", "'Zfhmin' (Half-Precision Floating-Point Minimal)", []string{"f"}},
	{ArchRISCV, "zfinx", "'Zfinx' (Float in Integer)", nil},
	{ArchRISCV, "zhinx", "'Zhinx' (Half Float in Integer)", []string{"zhinxmin"}},
	{ArchRISCV, "zhinxmin", "'Zhinxmin' (Half Float in Integer Minimal)", []string{"zfinx"}},
	{ArchRISCV, "zk", "'Zk' (Standard scalar cryptography extension)", []string{"zkn", "zkr", "zkt"}},
	{ArchRISCV, "zkn", "'Zkn' (NIST Algorithm Suite)", []string{"zbkb", "zbkc", "zbkx", "zkne", "zknd", "zknh"}},
	{ArchRISCV, "zknd", "'Zknd' (NIST Suite: AES Decryption)", nil},
	{ArchRISCV, "zkne", "'Zkne' (NIST Suite: AES Encryption)", nil},
	{ArchRISCV, "zknh", "'Zknh' (NIST Suite: Hash Function Instructions)", nil},
	{ArchRISCV, "zkr", "'Zkr' (Entropy Source Extension)", nil},
	{ArchRISCV, "zks", "'Zks' (ShangMi Algorithm Suite)", []string{"zbkb", "zbkc", "zbkx", "zksed", "zksh"}},
	{ArchRISCV, "zksed", "'Zksed' (ShangMi Suite: SM4 Block Cipher Instructions)", nil},
	{ArchRISCV, "zksh", "'Zksh' (ShangMi Suite: SM3 Hash Function Instructions)", nil},
	{ArchRISCV, "zkt", "'Zkt' (Data Independent Execution Latency)", nil},

	// Wasm
	{ArchWasm, "atomics", "Enable Atomics", nil},
	{ArchWasm, "bulk-memory", "Enable bulk memory operations", nil},
	{ArchWasm, "multivalue", "Enable multivalue blocks, instructions, and functions", nil},
	{ArchWasm, "mutable-globals", "Enable mutable globals", nil},
	{ArchWasm, "nontrapping-fptoint", "Enable non-trapping float-to-int conversion operators", nil},
	{ArchWasm, "reference-types", "Enable reference types", nil},
	{ArchWasm, "relaxed-simd", "Enable relaxed-simd instructions", []string{"simd128"}},
	{ArchWasm, "sign-ext", "Enable sign extension operators", nil},
	{ArchWasm, "simd128", "Enable 128-bit SIMD", nil},
	{ArchWasm, "tail-call", "Enable tail call instructions", nil},

	// x86
	{ArchX86, "adx", "Support ADX instructions", nil},
	{ArchX86, "aes", "Enable AES instructions", []string{"sse2"}},
	{ArchX86, "avx", "Enable AVX instructions", []string{"sse4.2"}},
	{ArchX86, "avx2", "Enable AVX2 instructions", []string{"avx"}},
	{ArchX86, "avx512bf16", "Support bfloat16 floating point", []string{"avx512bw"}},
	{ArchX86, "avx512bitalg", "Enable AVX-512 Bit Algorithms", []string{"avx512bw"}},
	{ArchX86, "avx512bw", "Enable AVX-512 Byte and Word Instructions", []string{"avx512f"}},
	{ArchX86, "avx512cd", "Enable AVX-512 Conflict Detection Instructions", []string{"avx512f"}},
	{ArchX86, "avx512dq", "Enable AVX-512 Doubleword and Quadword Instructions", []string{"avx512f"}},
	{ArchX86, "avx512er", "Enable AVX-512 Exponential and Reciprocal Instructions", []string{"avx512f"}},
	{ArchX86, "avx512f", "Enable AVX-512 instructions", []string{"avx2", "fma", "f16c"}},
	{ArchX86, "avx512ifma", "Enable AVX-512 Integer Fused Multiple-Add", []string{"avx512f"}},
	{ArchX86, "avx512pf", "Enable AVX-512 PreFetch Instructions", []string{"avx512f"}},
	{ArchX86, "avx512vbmi", "Enable AVX-512 Vector Byte Manipulation Instructions", []string{"avx512bw"}},
	{ArchX86, "avx512vbmi2", "Enable AVX-512 further Vector Byte Manipulation Instructions", []string{"avx512bw"}},
	{ArchX86, "avx512vl", "Enable AVX-512 Vector Length eXtensions", []string{"avx512f"}},
	{ArchX86, "avx512vnni", "Enable AVX-512 Vector Neural Network Instructions", []string{"avx512f"}},
	{ArchX86, "avx512vp2intersect", "Enable AVX-512 vp2intersect", []string{"avx512f"}},
	{ArchX86, "avx512vpopcntdq", "Enable AVX-512 Population Count Instructions", []string{"avx512f"}},
	{ArchX86, "bmi1", "Support BMI instructions", nil},
	{ArchX86, "bmi2", "Support BMI2 instructions", nil},
	{ArchX86, "cmpxchg16b", "64-bit with cmpxchg16b", nil},
	{ArchX86, "ermsb", "REP MOVS/STOS are fast", nil},
	{ArchX86, "f16c", "Support 16-bit floating point conversion instructions", []string{"avx"}},
	{ArchX86, "fma", "Enable three-operand fused multiple-add", []string{"avx"}},
	{ArchX86, "fxsr", "Support fxsave/fxrestore instructions", nil},
	{ArchX86, "gfni", "Enable Galois Field Arithmetic Instructions", []string{"sse2"}},
	{ArchX86, "lzcnt", "Support LZCNT instruction", nil},
	{ArchX86, "movbe", "Support MOVBE instruction", nil},
	{ArchX86, "pclmulqdq", "Enable packed carry-less multiplication instructions", []string{"sse2"}},
	{ArchX86, "popcnt", "Support POPCNT instruction", nil},
	{ArchX86, "rdrand", "Support RDRAND instruction", nil},
	{ArchX86, "rdseed", "Support RDSEED instruction", nil},
	{ArchX86, "rtm", "Support RTM instructions", nil},
	{ArchX86, "sha", "Enable SHA instructions", []string{"sse2"}},
	{ArchX86, "sse", "Enable SSE instructions", nil},
	{ArchX86, "sse2", "Enable SSE2 instructions", []string{"sse"}},
	{ArchX86, "sse3", "Enable SSE3 instructions", []string{"sse2"}},
	{ArchX86, "sse4.1", "Enable SSE 4.1 instructions", []string{"ssse3"}},
	{ArchX86, "sse4.2", "Enable SSE 4.2 instructions", []string{"sse4.1"}},
	{ArchX86, "sse4a", "Support SSE 4a instructions", []string{"sse3"}},
	{ArchX86, "ssse3", "Enable SSSE3 instructions", []string{"sse3"}},
	{ArchX86, "tbm", "Enable TBM instructions", nil},
	{ArchX86, "vaes", "Promote selected AES instructions to AVX512/AVX registers", []string{"avx2", "aes"}},
	{ArchX86, "vpclmulqdq", "Enable vpclmulqdq instructions", []string{"avx", "pclmulqdq"}},
	{ArchX86, "xsave", "Support xsave instructions", nil},
	{ArchX86, "xsavec", "Support xsavec instructions", []string{"xsave"}},
	{ArchX86, "xsaveopt", "Support xsaveopt instructions", []string{"xsave"}},
	{ArchX86, "xsaves", "Support xsaves instructions", []string{"xsave"}},
}

// featureCount is the number of entries in the feature table.
const featureCount = len(catalog)

// featureTable is the resolved form of catalog, built once at package
// initialization and never mutated afterwards.
var featureTable = mustBuildTable(catalog[:])

func mustBuildTable(defs []featureDef) []featureEntry {
	table, err := buildTable(defs)
	if err != nil {
		panic("targetfeatures: invalid feature table: " + err.Error())
	}
	return table
}

// buildTable resolves implied feature names to handles and flattens every
// implication list to its transitive closure, so that single-level
// resolution in [Target.SupportsFeature] sees indirect implications too.
func buildTable(defs []featureDef) ([]featureEntry, error) {
	type key struct {
		arch Architecture
		name string
	}

	index := make(map[key]int, len(defs))
	for i, def := range defs {
		k := key{def.arch, def.name}
		if def.name == "" {
			return nil, fmt.Errorf("entry %d (%s): empty feature name", i, def.arch)
		}
		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("duplicate feature %s/%s", def.arch, def.name)
		}
		index[k] = i
	}

	direct := make([][]int, len(defs))
	for i, def := range defs {
		for _, name := range def.implies {
			j, ok := index[key{def.arch, name}]
			if !ok {
				return nil, fmt.Errorf("feature %s/%s: implies unknown feature %q", def.arch, def.name, name)
			}
			direct[i] = append(direct[i], j)
		}
	}

	table := make([]featureEntry, len(defs))
	for i, def := range defs {
		table[i] = featureEntry{
			arch:        def.arch,
			name:        def.name,
			description: def.description,
		}
		for _, j := range closure(direct, []int{i}) {
			if j == i {
				continue
			}
			table[i].implies = append(table[i].implies, Feature{id: j + 1})
		}
	}
	return table, nil
}

// closure returns the indices reachable from roots through edges in
// breadth-first discovery order. Roots are included only when reached
// again through a cycle.
func closure(edges [][]int, roots []int) []int {
	visited := make(map[int]struct{}, len(roots))
	queue := append([]int(nil), roots...)
	var out []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range edges[cur] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}
