package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	mem "finca-digital/internal/adapters/storage/memory"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/router"
)

const ownerPhone = "whatsapp:+573001112233"

func TestHTTP_EndToEnd_WhatsAppIntakeThenDashboard(t *testing.T) {
	st := mem.NewStore()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Farms:    st.Farms(),
		Animals:  st.Animals(),
		Records:  st.Records(),
		Resetter: st,
	}))
	defer ts.Close()

	// 1) Número desconocido pide registrar su finca
	if reply := sendWhatsApp(t, ts.URL, ownerPhone, "hola"); !strings.Contains(reply, "¿cómo se llama tu finca?") {
		t.Fatalf("expected farm name prompt, got %q", reply)
	}
	if reply := sendWhatsApp(t, ts.URL, ownerPhone, "La Esperanza"); !strings.Contains(reply, "registrada") {
		t.Fatalf("expected registration, got %q", reply)
	}

	// 2) Sin activar: bloqueado
	if reply := sendWhatsApp(t, ts.URL, ownerPhone, "1"); !strings.Contains(reply, "suscripción ha expirado") {
		t.Fatalf("expected renewal message, got %q", reply)
	}

	// 3) Activación (lo hace el CLI en producción)
	f, err := farms.NewService(st.Farms()).Activate(context.Background(), farms.ActivateInput{
		FarmName: "La Esperanza",
		Until:    time.Now().AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	// 4) Ingreso de dos animales por WhatsApp
	var reply string
	for _, msg := range []string{"4", "nacimiento", "ternera marca LG01 peso 40 kg, marca LG02", "2", "crías", "0", "corral 1", "fin"} {
		reply = sendWhatsApp(t, ts.URL, ownerPhone, msg)
	}
	if !strings.Contains(reply, "2 animales guardados") {
		t.Fatalf("expected 2 animals stored, got %q", reply)
	}

	// 5) El tablero sin clave => 401
	if st, _ := doGet(t, ts.URL+"/farm/inventory", ""); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without access key, got %d", st)
	}

	// 6) Con clave ve el inventario
	st2, body := doGet(t, ts.URL+"/farm/inventory", f.AccessKey)
	if st2 != http.StatusOK {
		t.Fatalf("expected 200 inventory, got %d body=%s", st2, body)
	}
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("decode inventory: %v", err)
	}
	if len(items) != 2 || items[0]["external_id"] != "V-M-LG01" || items[0]["category"] != "ternera" {
		t.Fatalf("unexpected inventory: %s", body)
	}

	// 7) Libro de registros
	st3, body := doGet(t, ts.URL+"/farm/records", f.AccessKey)
	if st3 != http.StatusOK || !strings.Contains(string(body), "(2 animales)") {
		t.Fatalf("expected intake record, got %d body=%s", st3, body)
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, body := doGet(t, ts.URL+"/health", ""); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected ok health, got %d %q", st, body)
	}
	if st, _ := doGet(t, ts.URL+"/metrics", ""); st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
}

func sendWhatsApp(t *testing.T, baseURL, from, body string) string {
	t.Helper()
	form := url.Values{"From": {from}, "Body": {body}}
	res, err := http.PostForm(baseURL+"/webhook", form)
	if err != nil {
		t.Fatalf("post webhook: %v", err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("webhook status %d body=%s", res.StatusCode, raw)
	}
	return string(raw)
}

func doGet(t *testing.T, u, key string) (int, []byte) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, u, nil)
	if key != "" {
		req.Header.Set("X-Access-Key", key)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}
