package main

import (
	"errors"
	"fmt"
	"strings"

	"ai_writer_tools/adgate"
	"ai_writer_tools/config"
	"ai_writer_tools/generator"

	"github.com/spf13/cobra"
)

var (
	genTool    string
	genFields  []string
	genOpenAds bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one writer tool and print the result",
	Example: `  writer generate --tool kids-story --field topic="A brave little rabbit" --field ageGroup=6-8 --field wordCount=500
  writer generate --tool blog-post --field topic="Better sleep" --field wordCount=custom --field customWordCount=1200`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genTool, "tool", "t", string(generator.ToolContent), "content | kids-story | blog-post | instagram-caption")
	generateCmd.Flags().StringArrayVarP(&genFields, "field", "f", nil, "form field as name=value (repeatable)")
	generateCmd.Flags().BoolVar(&genOpenAds, "open-sponsor", false, "open the sponsor link in the browser instead of printing it")
}

func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --field %q, want name=value", p)
		}
		fields[k] = v
	}
	return fields, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	tool := generator.ToolKind(genTool)
	if !tool.Valid() {
		return fmt.Errorf("%w: %q", generator.ErrUnknownTool, genTool)
	}
	fields, err := parseFields(genFields)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	writer, err := buildWriter(cfg)
	if err != nil {
		return err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	gate, err := buildCounter(cfg, store, adgate.DefaultKey)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	req := generator.NewRequest(tool, fields)

	// 校验失败的提交不计入广告周期。
	if err := generator.Validate(req); err != nil {
		return err
	}
	if ad := gate.RecordClick(ctx); ad.ShouldShow {
		var nav adgate.Navigator = adgate.PrintNavigator{W: cmd.ErrOrStderr()}
		if genOpenAds {
			nav = adgate.BrowserNavigator{}
		}
		adgate.NewSponsor(nav, logger.Named("sponsor")).Open(ctx, ad.AdURL)
	}

	res := writer.Generate(ctx, req)
	if res.Error != "" {
		return errors.New(res.Error)
	}
	fmt.Fprintln(out, res.Output)
	return nil
}
