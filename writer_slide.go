package slideshow

import (
	"archive/zip"
	"fmt"
	"math"
	"strings"
)

func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *DeckSlide, slideNum int) error {
	var shapesXML strings.Builder
	shapeID := 2 // 1 is reserved for the group shape
	rels := slideRelIDs(slide)

	for _, shape := range slide.shapes {
		switch s := shape.(type) {
		case *PictureShape:
			if rid, ok := rels[s]; ok {
				shapesXML.WriteString(writePictureShapeXML(s, rid, &shapeID))
			}
		case *TextBoxShape:
			shapesXML.WriteString(writeTextBoxShapeXML(s, &shapeID))
		case *RectShape:
			shapesXML.WriteString(writeRectShapeXML(s, &shapeID))
		}
	}

	bgXML := ""
	if !slide.Background.IsZero() {
		bgXML = "    <p:bg>\n      <p:bgPr>\n        " + solidFillXML(slide.Background) +
			"\n        <a:effectLst/>\n      </p:bgPr>\n    </p:bg>\n"
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
%s    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, bgXML, shapesXML.String())

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

// slideRelIDs assigns relationship ids to the pictures of a slide. rId1 is
// the slide layout.
func slideRelIDs(slide *DeckSlide) map[*PictureShape]string {
	ids := make(map[*PictureShape]string)
	for i, p := range slide.pictures() {
		ids[p] = fmt.Sprintf("rId%d", i+2)
	}
	return ids
}

func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slide *DeckSlide, slideNum int) error {
	rels := xmlRelationships{Xmlns: nsRelationships}
	rels.add(relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
	for _, p := range slide.pictures() {
		rels.add(relTypeImage, fmt.Sprintf("../media/image%d.%s", w.media[p], imageExtension(p.mimeType)))
	}
	return writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels)
}

// xfrmAttrs builds the attribute string for <a:xfrm>.
func xfrmAttrs(b *BaseShape) string {
	if b.rotation != 0 {
		return fmt.Sprintf(` rot="%d"`, b.rotation*60000)
	}
	return ""
}

func shapeName(b *BaseShape, kind string, id int) string {
	if b.name != "" {
		return b.name
	}
	return fmt.Sprintf("%s %d", kind, id)
}

func descrAttr(b *BaseShape) string {
	if b.description == "" {
		return ""
	}
	return fmt.Sprintf(` descr="%s"`, xmlEscape(b.description))
}

// --- Picture XML ---

func writePictureShapeXML(s *PictureShape, relID string, shapeID *int) string {
	id := *shapeID
	*shapeID++

	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="%s"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
        </p:spPr>
      </p:pic>
`, id, xmlEscape(shapeName(&s.BaseShape, "Picture", id)), descrAttr(&s.BaseShape),
		relID,
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height)
}

// --- Text Box XML ---

func writeTextBoxShapeXML(s *TextBoxShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	fillXML := "          <a:noFill/>\n"
	if !s.fill.IsZero() {
		fillXML = "          " + solidFillXML(s.fill) + "\n"
	}

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(writeParagraphXML(para))
	}
	if len(s.paragraphs) == 0 {
		paragraphsXML.WriteString("          <a:p/>\n")
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s" lIns="0" tIns="0" rIns="0" bIns="0"%s/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(shapeName(&s.BaseShape, "TextBox", id)), descrAttr(&s.BaseShape), xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		fillXML,
		boolToWrap(s.wrap), textAnchorAttr(s.anchor),
		paragraphsXML.String())
}

func boolToWrap(wrap bool) string {
	if wrap {
		return "square"
	}
	return "none"
}

// textAnchorAttr returns the anchor attribute string for <a:bodyPr>.
func textAnchorAttr(anchor VerticalAlignment) string {
	if anchor == "" {
		return ""
	}
	return fmt.Sprintf(` anchor="%s"`, string(anchor))
}

func writeParagraphXML(para *Paragraph) string {
	algn := ""
	if para.Align != "" {
		algn = fmt.Sprintf(` algn="%s"`, para.Align)
	}

	var runsXML strings.Builder
	for _, r := range para.runs {
		runsXML.WriteString(writeTextRunXML(r))
	}

	return fmt.Sprintf(`          <a:p>
            <a:pPr%s/>
%s          </a:p>
`, algn, runsXML.String())
}

func writeTextRunXML(tr *TextRun) string {
	font := tr.Font
	attrs := fmt.Sprintf(` lang="en-US" sz="%d" dirty="0"`, fontSizeHundredths(font.Size))

	if font.Bold {
		attrs += ` b="1"`
	}
	if font.Italic {
		attrs += ` i="1"`
	}
	if font.Underline {
		attrs += ` u="sng"`
	}
	if font.Strike {
		attrs += ` strike="sngStrike"`
	}

	solidFill := ""
	if !font.Color.IsZero() {
		solidFill = "\n              " + solidFillXML(font.Color)
	}

	latin := ""
	if font.Name != "" {
		latin = fmt.Sprintf(`
              <a:latin typeface="%s"/>`, xmlEscape(font.Name))
	}

	return fmt.Sprintf(`            <a:r>
              <a:rPr%s>%s%s
              </a:rPr>
              <a:t>%s</a:t>
            </a:r>
`, attrs, solidFill, latin, xmlEscape(tr.Text))
}

// fontSizeHundredths converts points to the 1/100 pt units of a:rPr sz,
// clamped to the range DrawingML accepts.
func fontSizeHundredths(pt float64) int {
	if pt <= 0 {
		pt = 18
	}
	return min(max(int(math.Round(pt*100)), 100), 400000)
}

// --- Rectangle XML ---

func writeRectShapeXML(s *RectShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	fillXML := "<a:noFill/>"
	if !s.fill.IsZero() {
		fillXML = solidFillXML(s.fill)
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvSpPr/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
          %s
          <a:ln>
            <a:noFill/>
          </a:ln>
        </p:spPr>
      </p:sp>
`, id, xmlEscape(shapeName(&s.BaseShape, "Rectangle", id)), descrAttr(&s.BaseShape), xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		fillXML)
}

// --- Media ---

func (w *PPTXWriter) writeMedia(zw *zip.Writer) error {
	for _, slide := range w.deck.slides {
		for _, p := range slide.pictures() {
			fw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.%s", w.media[p], imageExtension(p.mimeType)))
			if err != nil {
				return err
			}
			if _, err := fw.Write(p.data); err != nil {
				return err
			}
		}
	}
	return nil
}
