package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-wms/internal/application/auth"
	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/spreadsheet"
)

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseQuantity acepta punto o coma decimal.
func parseQuantity(s string) (decimal.Decimal, error) {
	q, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: quantidade %q", domain.ErrInvalidInput, s)
	}
	return q, nil
}

func printEntry(w io.Writer, e entity.HistoryEntry) {
	fmt.Fprintf(w, "%s %s: %s\n", e.Type, e.Code, e.Details)
}

func newEntradaCommand(c *cli) *cobra.Command {
	var description, lote string
	cmd := &cobra.Command{
		Use:   "entrada <código> <quantidade> <endereço>",
		Short: "Registrar entrada de produto",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			e, err := c.svc.RegisterEntry(ctxOf(cmd), dto.EntryRequest{
				Code: args[0], Description: description, Quantity: qty, Address: args[2], Lote: lote,
			})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "descricao", "d", "", "descrição do produto")
	cmd.Flags().StringVarP(&lote, "lote", "l", "", "lote (vazio = SEM LOTE)")
	_ = cmd.MarkFlagRequired("descricao")
	return cmd
}

func newSaidaCommand(c *cli) *cobra.Command {
	var lote string
	cmd := &cobra.Command{
		Use:   "saida <código> <quantidade> <endereço>",
		Short: "Registrar saída de produto",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			e, err := c.svc.RegisterExit(ctxOf(cmd), dto.ExitRequest{
				Code: args[0], Quantity: qty, Address: args[2], Lote: lote,
			})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lote, "lote", "l", "", "lote (vazio = SEM LOTE)")
	return cmd
}

func newTransferirCommand(c *cli) *cobra.Command {
	var lote string
	cmd := &cobra.Command{
		Use:   "transferir <código> <quantidade> <origem> <destino>",
		Short: "Transferir produto entre endereços",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			e, err := c.svc.Transfer(ctxOf(cmd), dto.TransferRequest{
				Code: args[0], Quantity: qty, FromAddress: args[2], ToAddress: args[3], Lote: lote,
			})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lote, "lote", "l", "", "lote (vazio = SEM LOTE)")
	return cmd
}

func newLoteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "lote <código> <endereço> <lote-atual> <lote-novo>",
		Short: "Alterar o lote de um registro",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.svc.UpdateLote(ctxOf(cmd), dto.UpdateLoteRequest{
				Code: args[0], Address: args[1], OldLote: args[2], NewLote: args[3],
			})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

func newImportarCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "importar <arquivo.xlsx|arquivo.csv>",
		Short: "Importar planilha de estoque",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := spreadsheet.ParseFile(args[0], f)
			if err != nil {
				return err
			}
			res, err := c.svc.Import(ctxOf(cmd), records)
			fmt.Fprintf(cmd.OutOrStdout(), "%d produto(s) importado(s)\n", res.Imported)
			return err
		},
	}
}

func newExportarCommand(c *cli) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "exportar",
		Short: "Exportar o estoque (csv, xlsx ou pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			now := time.Now()
			records := c.svc.Stock(ctx)

			var buf bytes.Buffer
			switch strings.ToLower(format) {
			case spreadsheet.FormatCSV:
				if err := spreadsheet.WriteStockCSV(&buf, records); err != nil {
					return err
				}
			case spreadsheet.FormatXLSX:
				if err := spreadsheet.WriteStockXLSX(&buf, records); err != nil {
					return err
				}
			case spreadsheet.FormatPDF:
				out, err := pdf.NewStockReportGenerator("").GenerateStockReport(ctx, records, c.svc.Summary(ctx), now)
				if err != nil {
					return err
				}
				buf.Write(out)
			default:
				return fmt.Errorf("%w: formato %q (use csv, xlsx ou pdf)", domain.ErrInvalidInput, format)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if output == "" {
				output = spreadsheet.FileName("estoque", strings.ToLower(format), now)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d registro(s) exportado(s) para %s\n", len(records), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "formato", "f", spreadsheet.FormatCSV, "csv, xlsx ou pdf")
	cmd.Flags().StringVarP(&output, "saida", "o", "", "arquivo de saída (- = stdout; padrão estoque_AAAA-MM-DD.ext)")
	return cmd
}

func newEstoqueCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "estoque [busca]",
		Short: "Listar o estoque (filtra por código, descrição, endereço ou lote)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			ctx := ctxOf(cmd)
			records := c.svc.Search(ctx, query)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(spreadsheet.StockHeader, "\t"))
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Code, r.Description, spreadsheet.FormatQuantity(r.Quantity), r.Address, r.Lote)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			s := c.svc.Summary(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d registro(s), %s unidade(s) no total\n", s.Records, spreadsheet.FormatQuantity(s.TotalQuantity))
			return nil
		},
	}
}

func newLotesCommand(c *cli) *cobra.Command {
	var lote, address string
	cmd := &cobra.Command{
		Use:   "lotes <código>",
		Short: "Quantidade por lote de um produto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.svc.LotBreakdown(ctxOf(cmd), args[0], lote, address)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s - %s: %s unidade(s)\n", b.Code, b.Description, spreadsheet.FormatQuantity(b.TotalQuantity))
			for _, l := range b.Lots {
				fmt.Fprintf(w, "  %s: %s\n", l.Lote, spreadsheet.FormatQuantity(l.Quantity))
			}
			if b.AtLocation != nil {
				fmt.Fprintf(w, "Lote %s no endereço %s: %s\n", strings.ToUpper(lote), strings.ToUpper(address), spreadsheet.FormatQuantity(*b.AtLocation))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lote, "lote", "l", "", "lote")
	cmd.Flags().StringVarP(&address, "endereco", "e", "", "endereço")
	return cmd
}

func newHistoricoCommand(c *cli) *cobra.Command {
	var limit int
	var csvOut string
	cmd := &cobra.Command{
		Use:   "historico",
		Short: "Mostrar o histórico de movimentações (mais recente primeiro)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := c.svc.History(ctxOf(cmd))
			if csvOut != "" {
				var buf bytes.Buffer
				if err := spreadsheet.WriteHistoryCSV(&buf, entries); err != nil {
					return err
				}
				return os.WriteFile(csvOut, buf.Bytes(), 0o644)
			}
			start, end := dto.PageRequest{Limit: limit}.Bounds(len(entries))
			entries = entries[start:end]
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(spreadsheet.HistoryTimeLayout), e.Type, e.Code, spreadsheet.FormatQuantity(e.Quantity), e.Details)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limite", "n", 20, "máximo de entradas (0 = todas)")
	cmd.Flags().StringVar(&csvOut, "csv", "", "exportar o histórico completo para este arquivo CSV")
	return cmd
}

func newLimparEstoqueCommand(c *cli) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "limpar-estoque",
		Short: "Apagar todo o estoque",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("%w: confirme com --sim", domain.ErrInvalidInput)
			}
			n := c.svc.ClearStock(ctxOf(cmd))
			fmt.Fprintf(cmd.OutOrStdout(), "%d registro(s) removido(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "sim", false, "confirmar a operação")
	return cmd
}

func newLimparHistoricoCommand(c *cli) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "limpar-historico",
		Short: "Apagar todo o histórico",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("%w: confirme com --sim", domain.ErrInvalidInput)
			}
			n := c.svc.ClearHistory(ctxOf(cmd))
			fmt.Fprintf(cmd.OutOrStdout(), "%d entrada(s) removida(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "sim", false, "confirmar a operação")
	return cmd
}

func newHashSenhaCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "hash-senha <senha>",
		Short:       "Gerar o hash bcrypt para AUTH_PASSWORD_HASH",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
