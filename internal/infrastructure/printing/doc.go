// Package printing renders invoices to HTML with html/template and prints the
// HTML to PDF with headless Chrome.
//
// Example usage:
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderInvoice(ctx, doc)
//	if err != nil {
//	    return err
//	}
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//	result, err := renderer.Render(ctx, &RenderRequest{HTML: html, PaperSize: PaperSizeA4})
package printing
