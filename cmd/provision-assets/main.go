package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"wisefido-wellness/common/logger"
	"wisefido-wellness/internal/assets"
	"wisefido-wellness/internal/config"
	"wisefido-wellness/internal/features"
)

// provision-assets 把工件包复制到工件目录并校验 JSON 工件能构建编码器
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	bundleDir := flag.String("bundle", cfg.Assets.BundleDir, "read-only artifact bundle directory")
	dir := flag.String("dir", cfg.Assets.Dir, "writable artifact directory")
	timeout := flag.Duration("timeout", time.Minute, "provisioning timeout")
	flag.Parse()

	lg, err := logger.NewLogger(cfg.Log.Level, "console", "provision-assets")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p := assets.NewProvisioner(os.DirFS(*bundleDir), *dir, lg)
	if err := p.EnsureReady(ctx); err != nil {
		log.Fatalf("Provisioning failed: %v", err)
	}

	art, err := features.LoadArtifacts(os.DirFS(*dir))
	if err != nil {
		log.Fatalf("Failed to load artifacts: %v", err)
	}
	enc, err := features.NewEncoderFromArtifacts(art)
	if err != nil {
		log.Fatalf("Artifacts are inconsistent: %v", err)
	}

	fmt.Printf("Artifacts ready in %s\n", *dir)
	for _, name := range assets.Artifacts {
		fmt.Printf("  %s\n", p.Path(name))
	}
	fmt.Printf("Feature order (%d): %v\n", len(enc.Features()), enc.Features())
}
