package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"axiom-trust/config"
	"axiom-trust/qzkp"
	"axiom-trust/vss"
)

func usage() {
	fmt.Println(`usage: axiomtrust <keys|prove|verify|split|reconstruct|demo> [options]

Subcommands:
  keys     Generate the issuer keypairs and write ./axiomtrust_keys/issuer.json
           (ML-DSA signing seed, ML-KEM encapsulation seed, verify key)

  prove    Prove knowledge of a vector and write ./axiomtrust_keys/proof.json
           Flags:
             -vector <floats>  comma-separated coordinates (required)
             -id     <string>  identifier the proof binds to (required)
             -config <path>    JSON parameter file (default: env + defaults)
             -v                verbose logging

  verify   Verify ./axiomtrust_keys/proof.json against the stored issuer key
           Flags:
             -id     <string>  expected identifier (default: the stored one)
             -config <path>    JSON parameter file
             -v                verbose logging

  split    Split a vector into protected shares, write ./axiomtrust_keys/shares.json
           Flags:
             -vector <floats>  comma-separated coordinates (required)
             -t      <int>     reconstruction threshold (default: 3)
             -n      <int>     total shares per coordinate (default: 5)
             -config <path>    JSON parameter file
             -v                verbose logging

  reconstruct  Reconstruct the vector from ./axiomtrust_keys/shares.json
           Flags:
             -use    <ints>    comma-separated share indexes to use (default: all)
             -t      <int>     reconstruction threshold (0 = stored value)
             -config <path>    JSON parameter file
             -v                verbose logging

  demo     Run the whole flow in-process with fresh keys`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "keys":
		runKeys(os.Args[2:])
	case "prove":
		runProve(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "split":
		runSplit(os.Args[2:])
	case "reconstruct":
		runReconstruct(os.Args[2:])
	case "demo":
		runDemo(os.Args[2:])
	default:
		usage()
	}
}

func parseVector(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty vector")
	}
	return out, nil
}

func parseIndexes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid share index %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func loadParams(path string) config.Params {
	var (
		params config.Params
		err    error
	)
	if path == "" {
		params, err = config.FromEnv()
	} else {
		params, err = config.LoadFile(path)
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return params
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return l
}

func runKeys(args []string) {
	fs := flag.NewFlagSet("keys", flag.ExitOnError)
	fs.Parse(args)

	if _, _, err := generateKeys(); err != nil {
		log.Fatalf("keys: %v", err)
	}
	fmt.Println("keys written to ./" + artifactDir)
}

func runProve(args []string) {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	vecStr := fs.String("vector", "", "comma-separated coordinates")
	id := fs.String("id", "", "identifier the proof binds to")
	cfgPath := fs.String("config", "", "JSON parameter file")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)
	if *vecStr == "" || *id == "" {
		log.Fatal("prove: -vector and -id are required")
	}
	vector, err := parseVector(*vecStr)
	if err != nil {
		log.Fatalf("prove: %v", err)
	}
	params := loadParams(*cfgPath)
	signer, _, err := loadKeys()
	if err != nil {
		log.Fatalf("prove: %v", err)
	}
	engine, err := qzkp.New(qzkp.Config{
		Dimensions:    params.Dimensions,
		SecurityLevel: params.SecurityLevel,
		CacheSize:     params.CacheSize,
	}, qzkp.WithSigner(signer), qzkp.WithLogger(newLogger(*verbose)))
	if err != nil {
		log.Fatalf("prove: %v", err)
	}

	commitment, proof, err := engine.ProveVectorKnowledge(vector, *id)
	if err != nil {
		log.Fatalf("prove: %v", err)
	}
	raw, err := proof.MarshalJSON()
	if err != nil {
		log.Fatalf("prove: encode proof: %v", err)
	}
	art := proofArtifact{
		Version:    "axiomtrust-proof-v1",
		Timestamp:  stamp(),
		Identifier: *id,
		Commitment: commitment.Hex(),
		Proof:      raw,
	}
	if err := saveArtifact("proof.json", art); err != nil {
		log.Fatalf("prove: %v", err)
	}
	fmt.Printf("prove: identifier=%s dimensions=%d measurements=%d\n",
		*id, proof.Dimensions, len(proof.Measurements))
	fmt.Printf("prove: commitment=%s\n", commitment.Hex())
	fmt.Println("proof written to ./" + artifactDir + "/proof.json")
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	id := fs.String("id", "", "expected identifier (default: the stored one)")
	cfgPath := fs.String("config", "", "JSON parameter file")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	var art proofArtifact
	if err := loadArtifact("proof.json", &art); err != nil {
		log.Fatalf("verify: load proof: %v", err)
	}
	commitment, err := qzkp.ParseCommitment(art.Commitment)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	var proof qzkp.Proof
	if err := proof.UnmarshalJSON(art.Proof); err != nil {
		log.Fatalf("verify: decode proof: %v", err)
	}
	identifier := art.Identifier
	if *id != "" {
		identifier = *id
	}

	params := loadParams(*cfgPath)
	signer, _, err := loadKeys()
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	engine, err := qzkp.New(qzkp.Config{
		Dimensions:    params.Dimensions,
		SecurityLevel: params.SecurityLevel,
		CacheSize:     params.CacheSize,
	}, qzkp.WithSigner(signer), qzkp.WithLogger(newLogger(*verbose)))
	if err != nil {
		log.Fatalf("verify: %v", err)
	}

	ok, reason := engine.VerifyProofReport(commitment, &proof, identifier)
	if !ok {
		log.Fatalf("verify failed: %v", reason)
	}
	fmt.Println("proof verified")
}

func runSplit(args []string) {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	vecStr := fs.String("vector", "", "comma-separated coordinates")
	threshold := fs.Int("t", 3, "reconstruction threshold")
	total := fs.Int("n", 5, "total shares per coordinate")
	cfgPath := fs.String("config", "", "JSON parameter file")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)
	if *vecStr == "" {
		log.Fatal("split: -vector is required")
	}
	vector, err := parseVector(*vecStr)
	if err != nil {
		log.Fatalf("split: %v", err)
	}
	engine := newVSSEngine(loadParams(*cfgPath), *threshold, *verbose)

	groups, err := engine.SplitSecret(vector, *threshold, *total)
	if err != nil {
		log.Fatalf("split: %v", err)
	}
	art := sharesArtifact{
		Version:   "axiomtrust-shares-v1",
		Timestamp: stamp(),
		Threshold: *threshold,
		Total:     *total,
		Groups:    groups,
	}
	if err := saveArtifact("shares.json", art); err != nil {
		log.Fatalf("split: %v", err)
	}
	fmt.Printf("split: %d coordinates into %d shares each (threshold %d)\n",
		len(groups), *total, *threshold)
	fmt.Println("shares written to ./" + artifactDir + "/shares.json")
}

func runReconstruct(args []string) {
	fs := flag.NewFlagSet("reconstruct", flag.ExitOnError)
	useStr := fs.String("use", "", "comma-separated share indexes to use")
	threshold := fs.Int("t", 0, "reconstruction threshold (0 = stored value)")
	cfgPath := fs.String("config", "", "JSON parameter file")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	var art sharesArtifact
	if err := loadArtifact("shares.json", &art); err != nil {
		log.Fatalf("reconstruct: load shares: %v", err)
	}
	use, err := parseIndexes(*useStr)
	if err != nil {
		log.Fatalf("reconstruct: %v", err)
	}
	groups := art.Groups
	if len(use) > 0 {
		wanted := make(map[int]bool, len(use))
		for _, n := range use {
			wanted[n] = true
		}
		groups = make([][]vss.Share, len(art.Groups))
		for i, group := range art.Groups {
			for _, s := range group {
				if wanted[s.Index] {
					groups[i] = append(groups[i], s)
				}
			}
		}
	}
	t := *threshold
	if t == 0 {
		t = art.Threshold
	}
	engine := newVSSEngine(loadParams(*cfgPath), art.Threshold, *verbose)

	vector, err := engine.ReconstructSecret(groups, t, engine.IssuerKey())
	if err != nil {
		log.Fatalf("reconstruct: %v", err)
	}
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	fmt.Printf("reconstruct: [%s]\n", strings.Join(parts, ", "))
}

// newVSSEngine assembles a sharing engine around the stored issuer keys.
func newVSSEngine(params config.Params, threshold int, verbose bool) *vss.Engine {
	signer, pair, err := loadKeys()
	if err != nil {
		log.Fatalf("vss: %v", err)
	}
	if threshold < 2 {
		threshold = vss.DefaultConfig().Threshold
	}
	engine, err := vss.New(vss.Config{
		ScaleFactor: params.ScaleFactor,
		Precision:   params.Precision,
		Threshold:   threshold,
	}, vss.WithSigner(signer), vss.WithKEMKeyPair(pair), vss.WithLogger(newLogger(verbose)))
	if err != nil {
		log.Fatalf("vss: %v", err)
	}
	return engine
}

func runDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)
	logger := newLogger(*verbose)

	vector := []float64{1.2345, -3.21, 0.5, 2.75}
	fmt.Printf("demo: vector %v\n", vector)

	prover, err := qzkp.New(qzkp.DefaultConfig(), qzkp.WithLogger(logger))
	if err != nil {
		log.Fatalf("demo: %v", err)
	}
	commitment, proof, err := prover.ProveVectorKnowledge(vector, "demo-vector")
	if err != nil {
		log.Fatalf("demo: prove: %v", err)
	}
	fmt.Printf("demo: commitment=%s measurements=%d\n", commitment.Hex(), len(proof.Measurements))
	if !prover.VerifyProof(commitment, proof, "demo-vector") {
		log.Fatal("demo: proof did not verify")
	}
	fmt.Println("demo: proof verified")
	if ok := prover.VerifyProof(commitment, proof, "other-vector"); ok {
		log.Fatal("demo: proof verified under the wrong identifier")
	}
	fmt.Println("demo: wrong identifier rejected")

	sharer, err := vss.New(vss.DefaultConfig(), vss.WithLogger(logger))
	if err != nil {
		log.Fatalf("demo: %v", err)
	}
	groups, err := sharer.SplitSecret(vector, 3, 5)
	if err != nil {
		log.Fatalf("demo: split: %v", err)
	}
	fmt.Printf("demo: split into %d share groups of 5\n", len(groups))

	subset := make([][]vss.Share, len(groups))
	for i, group := range groups {
		subset[i] = []vss.Share{group[0], group[2], group[4]}
	}
	got, err := sharer.ReconstructSecret(subset, 3, sharer.IssuerKey())
	if err != nil {
		log.Fatalf("demo: reconstruct: %v", err)
	}
	fmt.Printf("demo: reconstructed %v from shares 1, 3, 5\n", got)
}
