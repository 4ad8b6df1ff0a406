package dashboard

// indexHTML is the dashboard page. It connects back over WebSocket and
// renders each pushed alert, newest first, keeping at most 100 on screen.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Skywatch Alert Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Courier New', monospace; background: #000; color: #0f0; padding: 20px; min-height: 100vh; }
        .container { max-width: 1200px; margin: 0 auto; }
        h1 { text-align: center; margin-bottom: 20px; font-size: 2em; }
        .status { text-align: center; margin-bottom: 20px; font-size: 0.9em; }
        .status.connected { color: #0f0; }
        .status.disconnected { color: #f00; }
        #alerts-container { display: grid; grid-template-columns: repeat(auto-fill, minmax(350px, 1fr)); gap: 10px; margin-top: 20px; }
        .alert { border: 2px solid #0f0; padding: 12px; border-radius: 4px; }
        .alert.info { border-color: #0099ff; color: #0099ff; }
        .alert.notice { border-color: #ffff00; color: #ffff00; }
        .alert.warning { border-color: #ffaa00; color: #ffaa00; }
        .alert.critical { border-color: #ff0000; color: #ff0000; }
        .alert.emergency { border-color: #ff00ff; color: #ff00ff; }
        .alert-type { font-weight: bold; font-size: 1.1em; margin-bottom: 5px; }
        .alert-message { font-size: 0.95em; margin-bottom: 5px; word-wrap: break-word; }
        .alert-time { font-size: 0.8em; opacity: 0.7; }
        .alert-count { text-align: center; margin-top: 20px; font-size: 0.9em; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Skywatch Alert Dashboard</h1>
        <div class="status disconnected" id="status">Connecting...</div>
        <div id="alerts-container"></div>
        <div class="alert-count" id="alert-count">No alerts yet</div>
    </div>

    <script>
        const alertsContainer = document.getElementById('alerts-container');
        const statusDiv = document.getElementById('status');
        const alertCountDiv = document.getElementById('alert-count');

        const protocol = window.location.protocol === 'https:' ? 'wss' : 'ws';
        const ws = new WebSocket(protocol + '://' + window.location.host + '/ws');

        ws.onopen = () => {
            statusDiv.className = 'status connected';
            statusDiv.textContent = 'Connected';
        };

        ws.onclose = () => {
            statusDiv.className = 'status disconnected';
            statusDiv.textContent = 'Disconnected - reconnecting...';
            setTimeout(() => { window.location.reload(); }, 3000);
        };

        ws.onmessage = (event) => {
            try {
                displayAlert(JSON.parse(event.data));
            } catch (e) {
                console.error('Failed to parse alert:', e);
            }
        };

        function displayAlert(alert) {
            const alertDiv = document.createElement('div');
            alertDiv.className = 'alert ' + alert.severity.toLowerCase();
            const timeStr = new Date(alert.created_at).toLocaleTimeString();
            alertDiv.innerHTML =
                '<div class="alert-type">' + escapeHtml(alert.type) + '</div>' +
                '<div class="alert-message">' + escapeHtml(alert.message) + '</div>' +
                '<div class="alert-time">' + timeStr + '</div>';
            alertsContainer.insertBefore(alertDiv, alertsContainer.firstChild);
            while (alertsContainer.children.length > 100) {
                alertsContainer.removeChild(alertsContainer.lastChild);
            }
            const count = alertsContainer.children.length;
            alertCountDiv.textContent = 'Showing ' + count + ' alert' + (count !== 1 ? 's' : '');
        }

        function escapeHtml(text) {
            const map = { '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#039;' };
            return text.replace(/[&<>"']/g, m => map[m]);
        }
    </script>
</body>
</html>`
