package live

// ClientScript connects to /ws, forwards input, change and click events of
// elements carrying data-vid, and applies the patches it receives.
const ClientScript = `
(function() {
    'use strict';

    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws?session=' + encodeURIComponent(window.__vbindSession));

    function byId(id) {
        return document.querySelector('[data-vid="' + id + '"]');
    }

    function send(e) {
        var el = e.target.closest ? e.target.closest('[data-vid]') : null;
        if (!el || ws.readyState !== WebSocket.OPEN) {
            return;
        }
        ws.send(JSON.stringify({
            id: Number(el.getAttribute('data-vid')),
            type: e.type,
            value: 'value' in el ? String(el.value) : ''
        }));
    }

    ['input', 'change', 'click'].forEach(function(type) {
        document.addEventListener(type, send, true);
    });

    ws.onmessage = function(e) {
        var msg;
        try {
            msg = JSON.parse(e.data);
        } catch (err) {
            return;
        }
        if (msg.error) {
            console.error('[vbind]', msg.code || '', msg.error);
            return;
        }
        var el = byId(msg.id);
        if (!el) {
            return;
        }
        switch (msg.facet) {
            case 'value':
                if (el.value !== msg.value) {
                    el.value = msg.value;
                }
                break;
            case 'attr':
                el.setAttribute(msg.name, msg.value);
                break;
            case 'html':
                el.innerHTML = msg.value;
                break;
        }
    };

    ws.onclose = function() {
        console.log('[vbind] Connection closed, reload to start a new session');
    };
})();
`
