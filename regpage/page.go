package regpage

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/launchdarkly/registration-ui-tests/framework"
	"github.com/launchdarkly/registration-ui-tests/pagedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type pageData struct {
	FormID              string
	EmailID             string
	ConfirmEmailID      string
	PasswordID          string
	EmailErrorID        string
	ConfirmEmailErrorID string
	PasswordErrorID     string
	SuccessID           string
	SubmitLabel         string
	RegisterPath        string
	EmailPattern        string
	MaxEmailLength      int
	MinPasswordLength   int
	MaxPasswordLength   int
	MsgInvalidEmail     string
	MsgEmailTooLong     string
	MsgEmailMismatch    string
	MsgPasswordLength   string
	MsgPasswordRule     string
}

var pageTemplate = template.Must(template.New("register").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Register</title>
<style>
  .error { color: #b00020; display: block; min-height: 1em; }
  label { display: block; margin-top: 1em; }
</style>
</head>
<body>
<h1>Create an account</h1>
<form id="{{.FormID}}" novalidate>
  <label for="{{.EmailID}}">Email</label>
  <input id="{{.EmailID}}" name="email" type="email" autocomplete="email">
  <span id="{{.EmailErrorID}}" class="error" role="alert"></span>

  <label for="{{.ConfirmEmailID}}">Confirm email</label>
  <input id="{{.ConfirmEmailID}}" name="confirmEmail" type="email" autocomplete="off">
  <span id="{{.ConfirmEmailErrorID}}" class="error" role="alert"></span>

  <label for="{{.PasswordID}}">Password</label>
  <input id="{{.PasswordID}}" name="password" type="password" autocomplete="new-password">
  <span id="{{.PasswordErrorID}}" class="error" role="alert"></span>

  <button type="submit" disabled>{{.SubmitLabel}}</button>
</form>
<p id="{{.SuccessID}}" role="status" hidden></p>
<script>
(function () {
  var form = document.getElementById({{.FormID}});
  var button = form.querySelector("button");
  var success = document.getElementById({{.SuccessID}});
  var fields = {
    email: document.getElementById({{.EmailID}}),
    confirmEmail: document.getElementById({{.ConfirmEmailID}}),
    password: document.getElementById({{.PasswordID}})
  };
  var errors = {
    email: document.getElementById({{.EmailErrorID}}),
    confirmEmail: document.getElementById({{.ConfirmEmailErrorID}}),
    password: document.getElementById({{.PasswordErrorID}})
  };
  var emailPattern = new RegExp({{.EmailPattern}});
  var touched = {};

  function length(s) { return Array.from(s).length; }

  function problems() {
    var p = {};
    var email = fields.email.value;
    if (length(email) > {{.MaxEmailLength}}) {
      p.email = {{.MsgEmailTooLong}};
    } else if (!emailPattern.test(email)) {
      p.email = {{.MsgInvalidEmail}};
    }
    if (fields.confirmEmail.value !== email) {
      p.confirmEmail = {{.MsgEmailMismatch}};
    }
    var password = fields.password.value;
    var n = length(password);
    if (n < {{.MinPasswordLength}} || n > {{.MaxPasswordLength}}) {
      p.password = {{.MsgPasswordLength}};
    } else if (!/\p{Lu}/u.test(password) || !/\p{Nd}/u.test(password)) {
      p.password = {{.MsgPasswordRule}};
    }
    return p;
  }

  function render() {
    var p = problems();
    Object.keys(fields).forEach(function (name) {
      errors[name].textContent = (touched[name] && p[name]) || "";
    });
    button.disabled = Object.keys(p).length > 0;
  }

  Object.keys(fields).forEach(function (name) {
    function touch() { touched[name] = true; render(); }
    fields[name].addEventListener("input", touch);
    fields[name].addEventListener("blur", touch);
  });

  form.addEventListener("submit", function (event) {
    event.preventDefault();
    if (button.disabled) {
      return;
    }
    button.disabled = true;
    fetch({{.RegisterPath}}, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({
        email: fields.email.value,
        confirmEmail: fields.confirmEmail.value,
        password: fields.password.value
      })
    }).then(function (resp) {
      return resp.json();
    }).then(function (result) {
      if (result.ok) {
        success.textContent = result.message;
        success.hidden = false;
        return;
      }
      Object.keys(result.errors || {}).forEach(function (id) {
        var el = document.getElementById(id);
        if (el) {
          el.textContent = result.errors[id];
        }
      });
      render();
    });
  });

  render();
})();
</script>
</body>
</html>
`))

func defaultPageData() pageData {
	return pageData{
		FormID:              "registration",
		EmailID:             pagedef.EmailFieldID,
		ConfirmEmailID:      pagedef.ConfirmEmailFieldID,
		PasswordID:          pagedef.PasswordFieldID,
		EmailErrorID:        pagedef.EmailErrorID,
		ConfirmEmailErrorID: pagedef.ConfirmEmailErrorID,
		PasswordErrorID:     pagedef.PasswordErrorID,
		SuccessID:           pagedef.SuccessID,
		SubmitLabel:         pagedef.SubmitLabel,
		RegisterPath:        pagedef.RegisterPath,
		EmailPattern:        emailPatternSource,
		MaxEmailLength:      pagedef.MaxEmailLength,
		MinPasswordLength:   pagedef.MinPasswordLength,
		MaxPasswordLength:   pagedef.MaxPasswordLength,
		MsgInvalidEmail:     pagedef.MsgInvalidEmail,
		MsgEmailTooLong:     pagedef.MsgEmailTooLong,
		MsgEmailMismatch:    pagedef.MsgEmailMismatch,
		MsgPasswordLength:   pagedef.MsgPasswordLength,
		MsgPasswordRule:     pagedef.MsgPasswordComposition,
	}
}

// RenderPage returns the registration page markup.
func RenderPage() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, defaultPageData()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type handler struct {
	page   []byte
	logger framework.Logger
	mux    *http.ServeMux
}

// NewHandler returns a handler that serves the registration page at "/" and accepts submissions
// at "/register". The page refers to the submission path relatively, so the handler can be mounted
// under any prefix as long as the page's own URL ends in a slash.
func NewHandler(logger framework.Logger) (http.Handler, error) {
	page, err := RenderPage()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	h := &handler{page: page, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.servePage)
	h.mux.HandleFunc("POST /"+pagedef.RegisterPath, h.register)
	return h, nil
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *handler) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.page)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var params pagedef.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.logger.Printf("Rejected malformed registration request: %s", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	result := pagedef.RegisterResult{OK: true, Message: ldvalue.NewOptionalString(pagedef.SuccessText)}
	status := http.StatusOK
	if errs := Validate(params); len(errs) != 0 {
		h.logger.Printf("Rejected registration for %q: %v", params.Email, errs)
		result = pagedef.RegisterResult{Errors: errs}
		status = http.StatusUnprocessableEntity
	} else {
		h.logger.Printf("Accepted registration for %q", params.Email)
	}
	data, _ := json.Marshal(result)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
