package infra

// pdf.go — Invoice PDF generation using go-pdf/fpdf.
// Produces an A5 cobrança document: clinic header, patient name, reference
// month, item table (description, quantity, unit price, total — credit lines
// negative), bold total and due date.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/go-pdf/fpdf"
)

var nomesMeses = [...]string{"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

// GenerateFaturaPDF renders one invoice to storagePath (created if needed)
// and returns the absolute path to the generated file.
func GenerateFaturaPDF(fatura *model.Fatura, clinicaNome, pacienteNome, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("fatura_%s.pdf", fatura.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 — covers pt-BR accents

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(clinicaNome), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	mes := ""
	if fatura.MesReferencia >= 1 && fatura.MesReferencia <= 12 {
		mes = nomesMeses[fatura.MesReferencia]
	}
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Fatura — %s/%d", mes, fatura.AnoReferencia)), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, tr("Paciente: "+pacienteNome), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // description
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.18 // unit
	col4 := contentW * 0.18 // total

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, tr("Descrição"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, tr("Unitário"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range fatura.Itens {
		pdf.CellFormat(col1, 5, tr(item.Descricao), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.ValorUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "R$ "+item.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Total: R$ "+fatura.ValorTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Vencimento: "+fatura.Vencimento.Format("02/01/2006"), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
