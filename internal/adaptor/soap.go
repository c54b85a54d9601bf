package adaptor

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hooklift/gowsdl/soap"
	"github.com/pkg/errors"
)

// maxRefDepth bounds nesting of resolved references to stop at cyclic multiRef graph.
const maxRefDepth = 32

type rpcEnvelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    rpcBody  `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

// rpcBody keeps all child elements of SOAP body. RPC encoded service puts the response element
// first and then multiRef elements referred by href attributes.
type rpcBody struct {
	Fault    *soap.SOAPFault `xml:"http://schemas.xmlsoap.org/soap/envelope/ Fault"`
	Elements []xmlNode       `xml:",any"`
}

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (x *xmlNode) attr(name string) string {
	for _, attr := range x.Attrs {
		if attr.Name.Local == name && attr.Name.Space == "" {
			return attr.Value
		}
	}
	return ""
}

// refIndex maps id attribute of body level elements (multiRef) to the element.
type refIndex map[string]*xmlNode

func newRefIndex(elements []xmlNode) refIndex {
	index := refIndex{}
	for i := range elements {
		if id := elements[i].attr("id"); id != "" {
			index[id] = &elements[i]
		}
	}
	return index
}

// resolve returns a copy of node that has no href reference. Name of the referring element is
// kept and content comes from the referred element. Attributes are dropped because decoded
// models do not use them.
func (x refIndex) resolve(node *xmlNode, depth int) (*xmlNode, error) {
	if depth > maxRefDepth {
		return nil, fmt.Errorf("Too deep reference in SOAP body: %s", node.XMLName.Local)
	}

	content := node
	if href := node.attr("href"); href != "" {
		ref, ok := x[strings.TrimPrefix(href, "#")]
		if !ok {
			return nil, fmt.Errorf("Unresolved reference in SOAP body: %s", href)
		}
		content = ref
	}

	resolved := &xmlNode{
		XMLName: xml.Name{Local: node.XMLName.Local},
		Text:    content.Text,
	}
	for i := range content.Children {
		child, err := x.resolve(&content.Children[i], depth+1)
		if err != nil {
			return nil, err
		}
		resolved.Children = append(resolved.Children, *child)
	}
	if len(resolved.Children) > 0 {
		resolved.Text = ""
	}

	return resolved, nil
}

func (x *JiraSOAPClient) post(ctx context.Context, method string, req interface{}) ([]byte, int, error) {
	env := soap.SOAPEnvelope{
		XmlNS: soap.XmlNsSoapEnv,
		Body:  soap.SOAPBody{Content: req},
	}

	buf := new(bytes.Buffer)
	if err := xml.NewEncoder(buf).Encode(env); err != nil {
		return nil, 0, errors.Wrapf(err, "Fail to encode SOAP request: %s", method)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, buf)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "Fail to create SOAP request: %s", method)
	}
	httpReq.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	httpReq.Header.Set("SOAPAction", `""`)

	resp, err := x.client.Do(httpReq)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "Fail to send SOAP request: %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "Fail to read SOAP response: %s", method)
	}

	return raw, resp.StatusCode, nil
}

// decodeRPCResponse decodes SOAP body of rpc/encoded style into resp. References to multiRef
// elements are replaced with the referred content before decoding.
func decodeRPCResponse(raw []byte, status int, resp interface{}) error {
	var env rpcEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		if status >= 400 {
			return &soap.HTTPError{StatusCode: status, ResponseBody: raw}
		}
		return errors.Wrap(err, "Fail to parse SOAP envelope")
	}

	if env.Body.Fault != nil {
		return env.Body.Fault
	}
	if status >= 400 {
		return &soap.HTTPError{StatusCode: status, ResponseBody: raw}
	}
	if len(env.Body.Elements) == 0 {
		return errors.New("No element in SOAP body")
	}

	index := newRefIndex(env.Body.Elements)
	resolved, err := index.resolve(&env.Body.Elements[0], 0)
	if err != nil {
		return err
	}

	data, err := xml.Marshal(resolved)
	if err != nil {
		return errors.Wrap(err, "Fail to rebuild SOAP response")
	}
	if err := xml.Unmarshal(data, resp); err != nil {
		return errors.Wrapf(err, "Fail to decode SOAP response: %s", resolved.XMLName.Local)
	}

	return nil
}
