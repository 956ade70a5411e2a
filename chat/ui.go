package chat

// indexHTML is the single-page chat widget. It talks to POST /api/chat and
// keeps conversation history purely client-side.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; background: #f5f5f7; }
  .wrap { max-width: 760px; margin: 0 auto; padding: 24px 16px; }
  h1 { font-size: 1.4rem; margin-bottom: 4px; }
  p.desc { color: #555; margin-top: 0; }
  #log { background: #fff; border: 1px solid #ddd; border-radius: 8px;
         min-height: 320px; max-height: 60vh; overflow-y: auto; padding: 12px; }
  .msg { margin: 8px 0; padding: 8px 12px; border-radius: 8px; white-space: pre-wrap; }
  .user { background: #e8f0fe; margin-left: 20%; }
  .assistant { background: #f1f3f4; margin-right: 20%; }
  .error { background: #fdecea; color: #b3261e; margin-right: 20%; }
  form { display: flex; gap: 8px; margin-top: 12px; }
  input[type=text] { flex: 1; padding: 10px; border: 1px solid #ccc; border-radius: 6px; }
  button { padding: 10px 18px; border: 0; border-radius: 6px; background: #1a73e8;
           color: #fff; cursor: pointer; }
  button:disabled { background: #9bbcf0; }
  .examples { margin: 10px 0; }
  .examples button { background: #fff; color: #1a73e8; border: 1px solid #1a73e8;
                     margin-right: 8px; padding: 6px 12px; font-size: 0.85rem; }
</style>
</head>
<body>
<div class="wrap">
  <h1>{{.Title}}</h1>
  <p class="desc">{{.Description}}</p>
  <div id="log"></div>
  <div class="examples">
    {{range .Examples}}<button type="button" class="example">{{.}}</button>{{end}}
  </div>
  <form id="chat">
    <input type="text" id="input" placeholder="Type a message..." autocomplete="off" autofocus>
    <button type="submit" id="send">Send</button>
  </form>
</div>
<script>
(function () {
  var log = document.getElementById('log');
  var form = document.getElementById('chat');
  var input = document.getElementById('input');
  var send = document.getElementById('send');
  var history = [];
  var sessionID = null;

  function show(role, text) {
    var div = document.createElement('div');
    div.className = 'msg ' + role;
    div.textContent = text;
    log.appendChild(div);
    log.scrollTop = log.scrollHeight;
  }

  function submit(text) {
    if (!text) return;
    show('user', text);
    history.push({ role: 'user', content: text });
    input.value = '';
    send.disabled = true;

    fetch('/api/chat', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ session_id: sessionID, message: text, history: history })
    }).then(function (res) { return res.json(); }).then(function (data) {
      if (data.error) {
        show('error', data.error);
      } else {
        sessionID = data.session_id;
        history.push({ role: 'assistant', content: data.reply });
        show('assistant', data.reply);
      }
    }).catch(function (err) {
      show('error', String(err));
    }).finally(function () {
      send.disabled = false;
      input.focus();
    });
  }

  form.addEventListener('submit', function (e) {
    e.preventDefault();
    submit(input.value.trim());
  });

  Array.prototype.forEach.call(document.querySelectorAll('.example'), function (btn) {
    btn.addEventListener('click', function () { submit(btn.textContent); });
  });
})();
</script>
</body>
</html>
`
