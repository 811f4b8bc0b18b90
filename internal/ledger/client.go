package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"packer-backend/internal/apperr"
)

// ValuesClient: транспорт к внешнему сервису таблиц (API в стиле
// Google Sheets values). Вызовы блокирующие, без повторов: сбой сразу
// возвращается оператору, повторить можно вручную.
type ValuesClient interface {
	GetValues(spreadsheetID, rng string) ([][]string, error)
	ClearValues(spreadsheetID, rng string) error
	UpdateValues(spreadsheetID, rng string, values [][]string) error
	EnsureSheet(spreadsheetID, sheetName string) error
}

type HTTPValuesClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPValuesClient(baseURL, token string) *HTTPValuesClient {
	return &HTTPValuesClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
	}
}

func (c *HTTPValuesClient) do(method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return apperr.IO("Не удалось сформировать запрос: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return apperr.IO("Не удалось создать HTTP-запрос: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.IO("Сетевая ошибка: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.IO("Сервис таблиц вернул ошибку: HTTP %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.IO("Не удалось разобрать ответ: %v", err)
		}
	}
	return nil
}

type valuesPayload struct {
	Values [][]string `json:"values"`
}

func (c *HTTPValuesClient) GetValues(spreadsheetID, rng string) ([][]string, error) {
	var payload valuesPayload
	path := fmt.Sprintf("/spreadsheets/%s/values/%s", url.PathEscape(spreadsheetID), url.PathEscape(rng))
	if err := c.do(http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Values, nil
}

func (c *HTTPValuesClient) ClearValues(spreadsheetID, rng string) error {
	path := fmt.Sprintf("/spreadsheets/%s/values/%s:clear", url.PathEscape(spreadsheetID), url.PathEscape(rng))
	return c.do(http.MethodPost, path, nil, nil)
}

func (c *HTTPValuesClient) UpdateValues(spreadsheetID, rng string, values [][]string) error {
	path := fmt.Sprintf("/spreadsheets/%s/values/%s", url.PathEscape(spreadsheetID), url.PathEscape(rng))
	return c.do(http.MethodPut, path, valuesPayload{Values: values}, nil)
}

type spreadsheetInfo struct {
	Sheets []struct {
		Title string `json:"title"`
	} `json:"sheets"`
}

// EnsureSheet создаёт лист, если его ещё нет, и записывает строку заголовка.
func (c *HTTPValuesClient) EnsureSheet(spreadsheetID, sheetName string) error {
	var info spreadsheetInfo
	path := "/spreadsheets/" + url.PathEscape(spreadsheetID)
	if err := c.do(http.MethodGet, path, nil, &info); err != nil {
		return err
	}

	exists := false
	for _, s := range info.Sheets {
		if s.Title == sheetName {
			exists = true
			break
		}
	}

	if !exists {
		body := map[string]any{
			"requests": []map[string]any{
				{"addSheet": map[string]any{"properties": map[string]any{"title": sheetName}}},
			},
		}
		if err := c.do(http.MethodPost, path+":batchUpdate", body, nil); err != nil {
			return err
		}
	}

	headerRange := fmt.Sprintf("%s!A1:C1", sheetName)
	return c.UpdateValues(spreadsheetID, headerRange, [][]string{{colArticle, colQuantity, colCell}})
}
