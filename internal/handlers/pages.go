package handlers

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shortling/shortling/internal/link"
)

// Static terminal pages served by the GET resolver.
const (
	notFoundPage = `<!DOCTYPE html>
<html><body style="display:flex;justify-content:center;align-items:center;height:100vh;font-family:system-ui"><div style="text-align:center"><h1>404</h1><p>This link does not exist or has been removed.</p></div></body></html>`

	internalErrorPage = `<!DOCTYPE html>
<html><body style="display:flex;justify-content:center;align-items:center;height:100vh;font-family:system-ui"><div style="text-align:center"><h1>Error</h1><p>Something went wrong while handling the request. Please try again later.</p></div></body></html>`
)

var expiredTmpl = template.Must(template.New("expired").Parse(`<!DOCTYPE html>
<html><body style="display:flex;justify-content:center;align-items:center;height:100vh;font-family:system-ui"><div style="text-align:center"><h1>Expired</h1><p>This short link has expired and can no longer be accessed.</p><p style="font-size:12px;color:#999;margin-top:20px">Expired at: {{.ExpiredAt}}</p></div></body></html>`))

// passwordTmpl is the interactive challenge page. It posts the password back
// to the same URL as JSON and performs client-side navigation on success.
var passwordTmpl = template.Must(template.New("password").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Protected link</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: system-ui, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); display: flex; justify-content: center; align-items: center; min-height: 100vh; padding: 20px; }
.card { background: white; border-radius: 8px; box-shadow: 0 10px 40px rgba(0,0,0,0.1); padding: 40px; max-width: 400px; width: 100%; }
h1 { color: #333; margin-bottom: 10px; font-size: 24px; }
p { color: #666; margin-bottom: 20px; font-size: 14px; }
.error { background: #fee; color: #c33; padding: 10px 15px; border-radius: 4px; margin-bottom: 20px; display: none; font-size: 13px; }
.error.show { display: block; }
input { width: 100%; padding: 12px; border: 1px solid #ddd; border-radius: 4px; font-size: 16px; margin-bottom: 15px; }
button { width: 100%; padding: 12px; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; border: none; border-radius: 4px; font-size: 16px; font-weight: 600; cursor: pointer; }
button:disabled { opacity: 0.6; cursor: not-allowed; }
</style>
</head>
<body>
<div class="card">
<h1>This link is password protected</h1>
<p>Enter the password to continue.</p>
<div class="error" id="error"></div>
<form id="passwordForm">
<input type="password" id="password" placeholder="Password" autocomplete="off" required>
<button type="submit" id="submitBtn">Unlock</button>
</form>
</div>
<script>
const slug = {{.Slug}};
const form = document.getElementById('passwordForm');
const passwordInput = document.getElementById('password');
const errorDiv = document.getElementById('error');
const submitBtn = document.getElementById('submitBtn');

form.addEventListener('submit', async (e) => {
    e.preventDefault();
    const password = passwordInput.value;
    if (!password) return;

    submitBtn.disabled = true;
    errorDiv.classList.remove('show');

    try {
        const response = await fetch(window.location.href, {
            method: 'POST',
            headers: { 'Content-Type': 'application/json', 'X-Password': password },
            body: JSON.stringify({ password })
        });
        if (response.ok) {
            const data = await response.json();
            if (data.redirectUrl) window.location.href = data.redirectUrl;
        } else if (response.status === 401) {
            showError('Wrong password, try again.');
            passwordInput.value = '';
            passwordInput.focus();
        } else {
            showError('Verification failed, try again later.');
        }
    } catch (err) {
        showError('Network error: ' + err.message);
    }
    submitBtn.disabled = false;
});

function showError(msg) {
    errorDiv.textContent = msg;
    errorDiv.classList.add('show');
}

passwordInput.focus();
</script>
</body>
</html>
`))

func renderPasswordPage(slug link.Slug) []byte {
	var buf bytes.Buffer
	_ = passwordTmpl.Execute(&buf, struct{ Slug string }{Slug: string(slug)})

	return buf.Bytes()
}

func renderExpiredPage(expireTime *time.Time, loc *time.Location) []byte {
	var buf bytes.Buffer
	_ = expiredTmpl.Execute(&buf, struct{ ExpiredAt string }{
		ExpiredAt: link.FormatExpireTime(expireTime, loc),
	})

	return buf.Bytes()
}
