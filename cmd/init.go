package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-blog-image-kit/internal/template"

	"github.com/spf13/cobra"
)

// initCmd は、画像ガイドの雛形Markdownを書き出すのだ。
// ゼロからガイドを書き始めるときの足場になるのだよ。
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "画像ガイドの雛形Markdownを書き出すのだ。",
	Long: `パーサーがそのまま読める形式の画像ガイド雛形を書き出すのだ。
標準の見出し方言と、罫線区切りのレガシー方言から選べるのだよ。`,
	Example: "  ap-blog-go init --mode standard --out image_guide.md",
	RunE:    initCommand,
}

// initOpts は init コマンド専用のフラグ束なのだ。
var initOpts struct {
	Mode string
	Out  string
}

func init() {
	f := initCmd.Flags()
	f.StringVarP(&initOpts.Mode, "mode", "m", template.ModeStandard, "雛形の方言（standard または legacy）なのだ。")
	f.StringVar(&initOpts.Out, "out", "", "書き出し先のファイルパス（省略時は標準出力なのだ）。")
}

func initCommand(cmd *cobra.Command, args []string) error {
	content, err := template.GetGuideTemplate(initOpts.Mode)
	if err != nil {
		return err
	}

	if initOpts.Out == "" || initOpts.Out == "-" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	// 書きかけのガイドをうっかり潰さないようにするのだ
	if _, err := os.Stat(initOpts.Out); err == nil {
		return fmt.Errorf("'%s' は既に存在するのだ。上書きしたい場合は先に消してほしいのだ", initOpts.Out)
	}

	if err := os.WriteFile(initOpts.Out, []byte(content), 0o644); err != nil {
		return fmt.Errorf("雛形の書き出しに失敗したのだ: %w", err)
	}

	slog.Info("画像ガイドの雛形を書き出したのだ", "path", initOpts.Out, "mode", initOpts.Mode)
	return nil
}
