// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"fmt"
	"strings"
)

// styleIDs lists every paragraph style the writer references.
var styleIDs = []string{"Heading1", "Heading2", "Heading3", "Heading4", styleListBullet}

// reportStyles holds the definitions of the Word built-in heading and list
// styles. The go-docx template only ships Normal and table styles.
var reportStyles = func() string {
	var b strings.Builder
	for level := 1; level <= 4; level++ {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d">`+
			`<w:name w:val="heading %d"/><w:basedOn w:val="a"/><w:next w:val="a"/>`+
			`<w:uiPriority w:val="9"/><w:qFormat/>`+
			`<w:pPr><w:keepNext/><w:keepLines/><w:spacing w:before="240" w:after="60"/><w:outlineLvl w:val="%d"/></w:pPr>`+
			`<w:rPr><w:b/><w:sz w:val="%s"/></w:rPr>`+
			`</w:style>`, level, level, level-1, headingSizes[level])
	}
	b.WriteString(`<w:style w:type="paragraph" w:styleId="ListBullet">` +
		`<w:name w:val="List Bullet"/><w:basedOn w:val="a"/><w:uiPriority w:val="99"/>` +
		`<w:pPr><w:ind w:left="360" w:hanging="360"/><w:contextualSpacing/></w:pPr>` +
		`</w:style>`)
	return b.String()
}()

// withReportStyles appends the heading and list style definitions to a
// styles.xml part unless they are already defined.
func withReportStyles(styles []byte) []byte {
	if bytes.Contains(styles, []byte(`w:styleId="Heading1"`)) {
		return styles
	}
	end := bytes.LastIndex(styles, []byte("</w:styles>"))
	if end < 0 {
		return styles
	}
	out := make([]byte, 0, len(styles)+len(reportStyles))
	out = append(out, styles[:end]...)
	out = append(out, reportStyles...)
	out = append(out, styles[end:]...)
	return out
}
